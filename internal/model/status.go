package model

// DateStatus classifies one calendar day on the challenge calendar.
// It is derived state: always recomputable from recurring-item history.
type DateStatus string

const (
	StatusSuccess     DateStatus = "success"
	StatusRescued     DateStatus = "rescued"
	StatusPending     DateStatus = "pending"
	StatusFailed      DateStatus = "failed"
	StatusNoChallenge DateStatus = "no-challenge"
)
