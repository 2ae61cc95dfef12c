package model

import (
	"time"

	"task-assignment.com/task-assignment/internal/constants"
)

type File struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	Filename         string             `gorm:"size:255;not null;index" json:"filename"`
	OriginalFilename string             `gorm:"size:255;not null" json:"original_filename"`
	FileType         constants.FileType `gorm:"type:varchar(50);not null" json:"file_type"`
	UploadedAt       time.Time          `json:"uploaded_at"`
	TaskID           uint               `gorm:"not null;index" json:"task_id"`
}

type EditFile struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	Filename         string             `gorm:"size:255;not null;index" json:"filename"`
	OriginalFilename string             `gorm:"size:255;not null" json:"original_filename"`
	FileType         constants.FileType `gorm:"type:varchar(50);not null" json:"file_type"`
	UploadedAt       time.Time          `json:"uploaded_at"`
	EditID           uint               `gorm:"not null;index" json:"edit_id"`
}
