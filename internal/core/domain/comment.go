package domain

import "time"

// Comment is a note left by a user on a page.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	PageID    string    `json:"pageId" bson:"page_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`

	UserName string `json:"userName,omitempty" bson:"-"`
}
