package model

// Aggregate summarises the records sharing a grouping key.
// Aggregates are recomputed on every request and carry no identity.
type Aggregate struct {
	Key             string   `json:"key"`
	Count           int      `json:"count"`
	TotalWealth     float64  `json:"totalWealth"`
	MeanAge         *float64 `json:"meanAge"` // nil when no member has an age
	SelfMadeCount   int      `json:"selfMadeCount"`
	SelfMadeWealth  float64  `json:"selfMadeWealth"`
	InheritedCount  int      `json:"inheritedCount"`
	InheritedWealth float64  `json:"inheritedWealth"`
	Share           float64  `json:"share"` // percent of the aggregated subset's wealth
}
