package models

// Avatar is an entry in the read-only avatar catalog.
type Avatar struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}
