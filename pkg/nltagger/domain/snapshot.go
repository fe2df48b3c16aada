package domain

// Snapshot the state of a run after a step. Text is always the whole log so far, never a delta: a display
// simply replaces what it shows with the latest snapshot.
type Snapshot struct {
	RunID     string `json:"runId"`
	Text      string `json:"text"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Completed bool   `json:"completed"`
}
