package model

import (
	"time"

	"github.com/shopspring/decimal"

	"task-assignment.com/task-assignment/internal/constants"
)

type Task struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Code        string               `gorm:"size:8;uniqueIndex;not null" json:"task_id"`
	Description string               `gorm:"type:text;not null" json:"description"`
	Deadline    time.Time            `gorm:"not null" json:"deadline"`
	Price       decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"price"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time            `gorm:"index" json:"created_at"`
	CompletedAt *time.Time           `gorm:"index" json:"completed_at"`
	UserID      uint                 `gorm:"not null;index" json:"user_id"`

	User  *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Files []File     `gorm:"foreignKey:TaskID" json:"files,omitempty"`
	Edits []TaskEdit `gorm:"foreignKey:TaskID" json:"edits,omitempty"`
}
