package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"task-assignment.com/task-assignment/internal/constants"
)

type TimeColumn string

const (
	ColumnCreatedAt   TimeColumn = "created_at"
	ColumnCompletedAt TimeColumn = "completed_at"
)

// TimeWindow bounds one timestamp column. Nil bounds are skipped. To is
// inclusive unless ToExclusive is set.
type TimeWindow struct {
	Column      TimeColumn
	From        *time.Time
	To          *time.Time
	ToExclusive bool
}

// Criteria selects tasks. The zero value matches every task.
type Criteria struct {
	OwnerID      *uint
	Status       constants.TaskStatus
	Statuses     []constants.TaskStatus
	CodeContains string
	Window       *TimeWindow
}

func (c Criteria) apply(q *gorm.DB) *gorm.DB {
	if c.OwnerID != nil {
		q = q.Where("user_id = ?", *c.OwnerID)
	}
	if c.Status != "" {
		q = q.Where("status = ?", c.Status)
	}
	if len(c.Statuses) > 0 {
		q = q.Where("status IN ?", c.Statuses)
	}
	if c.CodeContains != "" {
		q = q.Where("UPPER(code) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToUpper(c.CodeContains))+"%")
	}
	if w := c.Window; w != nil {
		column := string(ColumnCreatedAt)
		if w.Column == ColumnCompletedAt {
			column = string(ColumnCompletedAt)
		}
		if w.From != nil {
			q = q.Where(column+" >= ?", w.From.UTC())
		}
		if w.To != nil {
			op := " <= ?"
			if w.ToExclusive {
				op = " < ?"
			}
			q = q.Where(column+op, w.To.UTC())
		}
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
