package models

import "time"

// ContentRecord is a single review entry in the content collection.
// Title doubles as the lookup key for catalog metadata; storage does not
// enforce uniqueness.
type ContentRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Rating       float64   `json:"rating"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	GameplayTime string    `json:"gameplayTime,omitempty"`
	Date         time.Time `json:"date"`
	AuthorUID    string    `json:"authorUid"`
	NSFW         bool      `json:"nsfw"`
}

// CreateContentRequest is the POST payload for a new review.
type CreateContentRequest struct {
	Title        string  `json:"title"`
	Rating       float64 `json:"rating"`
	Summary      string  `json:"summary"`
	Content      string  `json:"content"`
	GameplayTime string  `json:"gameplayTime"`
	NSFW         bool    `json:"nsfw"`
}

// UpdateContentRequest is the PATCH payload. Nil fields are left unchanged.
type UpdateContentRequest struct {
	Title        *string  `json:"title,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Summary      *string  `json:"summary,omitempty"`
	Content      *string  `json:"content,omitempty"`
	GameplayTime *string  `json:"gameplayTime,omitempty"`
	NSFW         *bool    `json:"nsfw,omitempty"`
}

// BacklogItem is an entry in the play-next backlog, kept in its own
// collection and never cached with the review content.
type BacklogItem struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}
