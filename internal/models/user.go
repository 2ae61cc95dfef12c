package model

import (
	"time"

	"task-assignment.com/task-assignment/internal/constants"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Email        string         `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"size:20;not null" json:"phone"`
	Expertise    string         `gorm:"size:100;not null" json:"expertise"`
	PasswordHash string         `gorm:"size:256;not null" json:"-"`
	Role         constants.Role `gorm:"type:varchar(20);not null;default:user" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`

	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
