package model

import (
	"time"

	"task-assignment.com/task-assignment/internal/constants"
)

// TaskEdit is one edit cycle requested on an already completed task.
type TaskEdit struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	TaskID       uint                 `gorm:"not null;index" json:"task_id"`
	Instructions string               `gorm:"type:text;not null" json:"instructions"`
	Status       constants.EditStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	CompletedAt  *time.Time           `json:"completed_at"`

	Files []EditFile `gorm:"foreignKey:EditID" json:"files,omitempty"`
}
