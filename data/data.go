package data

import (
	_ "embed"
)

// DefaultPath is where the season dataset is served from when no source is configured.
const DefaultPath = "./resources/data/18-19 Regular Season.json"

// SampleSource selects the dataset bundled into the binary.
const SampleSource = "embedded:sample"

//go:embed sample.json
var sample []byte

// Sample returns a copy of the bundled dataset.
func Sample() []byte {
	out := make([]byte, len(sample))
	copy(out, sample)
	return out
}
