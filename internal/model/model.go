package model

// Task is one persisted to-do entry.
//
// ID is assigned by the store on insert and never reused. Text is the trimmed,
// non-empty text the user entered; it is not unique.
type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}
