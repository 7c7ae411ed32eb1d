package models

// ParallelTuple is one line of the parallel-coordinates series. The chart
// binds axes by index, so the order is fixed:
// PPG, RPG, BPG, POS, APG, SPG, TOPG, TEAM, FULL NAME.
type ParallelTuple [9]any

// ScatterTuple is one point of the scatter series: ORTG, DRTG, FULL NAME, POS.
type ScatterTuple [4]any

// Index of the position field inside a ParallelTuple.
const PositionDimension = 3

// Series holds the two index-aligned collections handed to the chart.
type Series struct {
	Parallel []ParallelTuple `json:"parallel"`
	Scatter  []ScatterTuple  `json:"scatter"`
}

// Len returns the number of records the series was built from.
func (s Series) Len() int {
	return len(s.Parallel)
}

// Transform maps each record onto its parallel and scatter tuples.
// Output order follows input order and both slices are always non-nil.
func Transform(records []PlayerSeasonRecord) Series {
	series := Series{
		Parallel: make([]ParallelTuple, len(records)),
		Scatter:  make([]ScatterTuple, len(records)),
	}

	for i, r := range records {
		series.Parallel[i] = ParallelTuple{
			r.PPG,
			r.RPG,
			r.BPG,
			r.Position,
			r.APG,
			r.SPG,
			r.TOPG,
			r.Team,
			r.FullName,
		}
		series.Scatter[i] = ScatterTuple{
			r.ORTG,
			r.DRTG,
			r.FullName,
			r.Position,
		}
	}

	return series
}
