package model

// RankedPool is a Pool augmented with its computed score. Instances
// are rebuilt from scratch on every pipeline pass and never persisted.
type RankedPool struct {
	Pool
	Score float64 `json:"score"`
}
