package models

// Capital holds a user's available balance. Rows are funded out of band;
// this service only debits and credits them alongside expense mutations.
type Capital struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	Balance float64 `json:"balance"`
}
