package dtos

// DeadlineRemaining is the decomposed time budget left until a reporting
// deadline. When the deadline has passed all duration fields are zero.
type DeadlineRemaining struct {
	Hours      int  `json:"hours"`
	Minutes    int  `json:"minutes"`
	Seconds    int  `json:"seconds"`
	IsOverdue  bool `json:"isOverdue"`
	IsCritical bool `json:"isCritical"`
}

type ProjectStatistics struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Triaged  int `json:"triaged"`
	Patched  int `json:"patched"`
	Ignored  int `json:"ignored"`
	Overdue  int `json:"overdue"`
	Critical int `json:"critical"`

	// HealthScore is the simple ring-chart score, WeightedScore the report
	// variant. Both are clamped to [0, 100].
	HealthScore   int `json:"healthScore"`
	WeightedScore int `json:"weightedScore"`
}
