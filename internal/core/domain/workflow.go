package domain

import "time"

// Workflow is a directed transition between two pages.
type Workflow struct {
	ID         string    `json:"id" bson:"_id"`
	FromPageID string    `json:"fromPageId" bson:"from_page_id"`
	ToPageID   string    `json:"toPageId" bson:"to_page_id"`
	Label      *string   `json:"label" bson:"label,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
