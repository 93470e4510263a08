package domain

import "time"

// Page is a screen inside a project, placed on the design canvas.
type Page struct {
	ID             string    `json:"id" bson:"_id"`
	ProjectID      string    `json:"projectId" bson:"project_id"`
	Title          *string   `json:"title,omitempty" bson:"title,omitempty"`
	ScreenshotPath string    `json:"screenshotPath" bson:"screenshot_path"`
	Order          int       `json:"order" bson:"order"`
	PositionX      *float64  `json:"positionX,omitempty" bson:"position_x,omitempty"`
	PositionY      *float64  `json:"positionY,omitempty" bson:"position_y,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
}

// PagePatch lists the mutable fields of a Page. The owning project is fixed.
type PagePatch struct {
	Title          *string
	ScreenshotPath *string
	Order          *int
	PositionX      *float64
	PositionY      *float64
}

// Apply copies the set fields of p onto page.
func (p PagePatch) Apply(page *Page) {
	if p.Title != nil {
		page.Title = p.Title
	}
	if p.ScreenshotPath != nil {
		page.ScreenshotPath = *p.ScreenshotPath
	}
	if p.Order != nil {
		page.Order = *p.Order
	}
	if p.PositionX != nil {
		page.PositionX = p.PositionX
	}
	if p.PositionY != nil {
		page.PositionY = p.PositionY
	}
}
