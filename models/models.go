package models

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Position categories in the order the chart palette assigns colours.
var Positions = []string{"C", "C-F", "F", "F-C", "F-G", "G", "G-F"}

var knownPositions = mapset.NewSet(Positions...)

// PlayerSeasonRecord is one player's line from the season dataset.
// Fields hold the decoded JSON value as is: nil when the key is missing,
// and whatever type the payload carried otherwise. Values are not
// validated, so a mistyped field reaches the chart unchanged.
type PlayerSeasonRecord struct {
	FullName any `json:"FULL NAME"`
	Team     any `json:"TEAM"`
	Position any `json:"POS"`
	PPG      any `json:"PPG"`
	RPG      any `json:"RPG"`
	BPG      any `json:"BPG"`
	APG      any `json:"APG"`
	SPG      any `json:"SPG"`
	TOPG     any `json:"TOPG"`
	ORTG     any `json:"ORTG"`
	DRTG     any `json:"DRTG"`
}

// UnknownPositions returns the distinct positions in records that fall
// outside the palette categories, sorted. Missing positions are ignored.
func UnknownPositions(records []PlayerSeasonRecord) []string {
	unknown := mapset.NewSet[string]()
	for _, r := range records {
		if r.Position == nil {
			continue
		}
		if !IsKnownPosition(r.Position) {
			unknown.Add(fmt.Sprint(r.Position))
		}
	}
	out := unknown.ToSlice()
	sort.Strings(out)
	return out
}

// IsKnownPosition reports whether pos is one of the palette categories.
// Non-string values never are.
func IsKnownPosition(pos any) bool {
	s, ok := pos.(string)
	return ok && knownPositions.Contains(s)
}
