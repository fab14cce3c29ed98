package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Task is a single to-do item. Every task belongs to exactly one user and is
// only reachable through owner-scoped queries.
type Task struct {
	ID                string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Title             string            `gorm:"not null;size:255" json:"title"`
	Description       *string           `gorm:"size:1000" json:"description"`
	DueDate           *time.Time        `json:"due_date"`
	Priority          Priority          `gorm:"size:16;default:medium" json:"priority"`
	TagsStr           *string           `gorm:"size:500" json:"-"`
	RecurrencePattern RecurrencePattern `gorm:"size:16;default:none" json:"recurrence_pattern"`
	Completed         bool              `gorm:"default:false" json:"completed"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.RecurrencePattern == "" {
		t.RecurrencePattern = RecurrenceNone
	}
	return nil
}

// Tags decodes the comma-encoded tag list.
func (t *Task) Tags() []string {
	if t.TagsStr == nil || *t.TagsStr == "" {
		return []string{}
	}
	parts := strings.Split(*t.TagsStr, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// SetTags stores the list comma-encoded; an empty list clears the column.
func (t *Task) SetTags(tags []string) {
	if len(tags) == 0 {
		t.TagsStr = nil
		return
	}
	joined := strings.Join(tags, ",")
	t.TagsStr = &joined
}
