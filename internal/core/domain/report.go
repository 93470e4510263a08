package domain

import "time"

// PDFReport points at a rendered status report. Immutable once created.
type PDFReport struct {
	ID          string    `json:"id" bson:"_id"`
	ProjectID   string    `json:"projectId" bson:"project_id"`
	GeneratedAt time.Time `json:"generatedAt" bson:"generated_at"`
	FilePath    string    `json:"filePath" bson:"file_path"`
}
