package models

import "time"

// Message is an announcement or note shown to members.
type Message struct {
	MessageID      string    `json:"messageId" bson:"messageId"`
	Kind           string    `json:"kind" bson:"kind"` // announcement, note
	Subject        string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Body           string    `json:"body" bson:"body"`
	DistributionID string    `json:"distributionId,omitempty" bson:"distributionId,omitempty"`
	AuthorID       string    `json:"authorId,omitempty" bson:"authorId,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Document is metadata about a shared file (statutes, price lists).
type Document struct {
	DocumentID string    `json:"documentId" bson:"documentId"`
	Title      string    `json:"title" bson:"title"`
	URL        string    `json:"url" bson:"url"`
	Kind       string    `json:"kind,omitempty" bson:"kind,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Setting is a single keyed configuration value.
type Setting struct {
	Key       string    `json:"key" bson:"key"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
