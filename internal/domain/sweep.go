package domain

// SweepReceipt acknowledges a sweep whose runs were handed to the task queue.
type SweepReceipt struct {
	RunID     string   `json:"run_id"`
	Enqueued  int      `json:"enqueued"`
	TaskNames []string `json:"task_names,omitempty"`
}
