package model

import "time"

// CollectionItem is a book or film entry.
type CollectionItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	Completed bool      `json:"completed"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// Library groups the books and films collections.
type Library struct {
	Books []CollectionItem `json:"books"`
	Films []CollectionItem `json:"films"`
}
