package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/validation"
)

// ErrTaskNotFound is returned both for a task that does not exist and for
// one owned by someone else; callers cannot tell the difference.
var ErrTaskNotFound = errors.New("task not found")

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title             string
	Description       *string
	DueDate           *time.Time
	Priority          *model.Priority
	Tags              []string
	RecurrencePattern *model.RecurrencePattern
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title             *string
	Description       *string
	DueDate           *time.Time
	Priority          *model.Priority
	Tags              []string
	RecurrencePattern *model.RecurrencePattern
	Completed         *bool
}

// TaskService wraps task-related business logic. The owner id always comes
// from the authenticated identity, never from the payload.
type TaskService struct {
	repo *repository.TaskRepository
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	if ok, reason := validation.Title(input.Title); !ok {
		return nil, &validation.FieldError{Reason: reason}
	}
	task := model.Task{
		UserID:    userID,
		Title:     validation.SanitizeText(input.Title),
		Completed: false,
	}

	if input.Description != nil {
		if ok, reason := validation.Description(*input.Description); !ok {
			return nil, &validation.FieldError{Reason: reason}
		}
		desc := validation.SanitizeText(*input.Description)
		task.Description = &desc
	}
	task.DueDate = input.DueDate
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, &validation.FieldError{Reason: "Invalid priority"}
		}
		task.Priority = *input.Priority
	}
	if input.Tags != nil {
		tags := validation.SanitizeTags(input.Tags)
		if ok, reason := validation.Tags(tags); !ok {
			return nil, &validation.FieldError{Reason: reason}
		}
		task.SetTags(tags)
	}
	if input.RecurrencePattern != nil {
		if !input.RecurrencePattern.Valid() {
			return nil, &validation.FieldError{Reason: "Invalid recurrence pattern"}
		}
		task.RecurrencePattern = *input.RecurrencePattern
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update applies the non-nil fields of upd. Validation runs before any write,
// so a failed check leaves the row as it was.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, upd TaskUpdate) (*model.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if ok, reason := validation.Title(*upd.Title); !ok {
			return nil, &validation.FieldError{Reason: reason}
		}
	}
	if upd.Description != nil {
		if ok, reason := validation.Description(*upd.Description); !ok {
			return nil, &validation.FieldError{Reason: reason}
		}
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return nil, &validation.FieldError{Reason: "Invalid priority"}
	}
	if upd.RecurrencePattern != nil && !upd.RecurrencePattern.Valid() {
		return nil, &validation.FieldError{Reason: "Invalid recurrence pattern"}
	}
	var sanitizedTags []string
	if upd.Tags != nil {
		sanitizedTags = validation.SanitizeTags(upd.Tags)
		if ok, reason := validation.Tags(sanitizedTags); !ok {
			return nil, &validation.FieldError{Reason: reason}
		}
	}

	if upd.Title != nil {
		task.Title = validation.SanitizeText(*upd.Title)
	}
	if upd.Description != nil {
		desc := validation.SanitizeText(*upd.Description)
		task.Description = &desc
	}
	if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Tags != nil {
		task.SetTags(sanitizedTags)
	}
	if upd.RecurrencePattern != nil {
		task.RecurrencePattern = *upd.RecurrencePattern
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips the completion flag; applying it twice restores the original
// state.
func (s *TaskService) Toggle(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
