package dto

// SweepResponse resultado del barrido de integridad (o de su encolado).
type SweepResponse struct {
	Scanned  int      `json:"scanned"`
	Modified int      `json:"modified"`
	Deleted  int      `json:"deleted"`
	Failed   int      `json:"failed"`
	DryRun   bool     `json:"dry_run"`
	Queued   bool     `json:"queued"`
	TaskID   string   `json:"task_id,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
