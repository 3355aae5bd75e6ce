package domain

import "time"

// StatusHistory is one row of a buyer's append-only status audit trail.
// Exactly one row is appended whenever the buyer's current status changes,
// including the very first save; nothing is appended on a no-op re-save.
type StatusHistory struct {
	HistoryID string      `json:"historyID"`
	BuyerID   string      `json:"buyerID"`
	Status    BuyerStatus `json:"status"`
	StatusDate time.Time  `json:"statusDate"` // defaults to today when not supplied
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"createdAt"`
}
