package models

import "time"

// Favorite is a catalog item a user has saved, keyed by (UserID, ImdbID).
type Favorite struct {
	UserID    string    `json:"-"`
	ImdbID    string    `json:"imdbID"`
	Title     string    `json:"title"`
	Poster    string    `json:"poster,omitempty"`
	Year      string    `json:"year,omitempty"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
