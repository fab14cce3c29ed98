package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/service"
	"taskhub/internal/validation"
)

type taskCreateRequest struct {
	Title             string                   `json:"title"`
	Description       *string                  `json:"description"`
	DueDate           *time.Time               `json:"due_date"`
	Priority          *model.Priority          `json:"priority"`
	Tags              []string                 `json:"tags"`
	RecurrencePattern *model.RecurrencePattern `json:"recurrence_pattern"`
}

type taskUpdateRequest struct {
	Title             *string                  `json:"title"`
	Description       *string                  `json:"description"`
	DueDate           *time.Time               `json:"due_date"`
	Priority          *model.Priority          `json:"priority"`
	Tags              []string                 `json:"tags"`
	RecurrencePattern *model.RecurrencePattern `json:"recurrence_pattern"`
	Completed         *bool                    `json:"completed"`
}

type taskResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	DueDate           *time.Time `json:"due_date"`
	Priority          string     `json:"priority"`
	Tags              []string   `json:"tags"`
	RecurrencePattern string     `json:"recurrence_pattern"`
	Completed         bool       `json:"completed"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:                t.ID,
		UserID:            t.UserID,
		Title:             t.Title,
		Description:       t.Description,
		DueDate:           t.DueDate,
		Priority:          string(t.Priority),
		Tags:              t.Tags(),
		RecurrencePattern: string(t.RecurrencePattern),
		Completed:         t.Completed,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// taskError maps service errors onto wire responses. Not-found and not-owned
// are the same 404 on purpose.
func taskError(w http.ResponseWriter, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		errorJSON(w, http.StatusBadRequest, fieldErr.Reason)
	case errors.Is(err, service.ErrTaskNotFound):
		errorJSON(w, http.StatusNotFound, "Task not found")
	default:
		serverError(w, err)
	}
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		unauthorizedJSON(w, credentialsDetail)
		return
	}
	tasks, err := a.taskSvc.List(r.Context(), userID)
	if err != nil {
		serverError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	// Creation stamps the owner from the verified identity, so the user row
	// must still exist.
	user, err := a.currentUser(r)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			unauthorizedJSON(w, credentialsDetail)
		} else {
			serverError(w, err)
		}
		return
	}

	var in taskCreateRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := a.taskSvc.Create(r.Context(), user.ID, service.TaskInput{
		Title:             in.Title,
		Description:       in.Description,
		DueDate:           in.DueDate,
		Priority:          in.Priority,
		Tags:              in.Tags,
		RecurrencePattern: in.RecurrencePattern,
	})
	if err != nil {
		taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		unauthorizedJSON(w, credentialsDetail)
		return
	}
	task, err := a.taskSvc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		unauthorizedJSON(w, credentialsDetail)
		return
	}

	var in taskUpdateRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := a.taskSvc.Update(r.Context(), userID, chi.URLParam(r, "id"), service.TaskUpdate{
		Title:             in.Title,
		Description:       in.Description,
		DueDate:           in.DueDate,
		Priority:          in.Priority,
		Tags:              in.Tags,
		RecurrencePattern: in.RecurrencePattern,
		Completed:         in.Completed,
	})
	if err != nil {
		taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (a *API) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		unauthorizedJSON(w, credentialsDetail)
		return
	}
	task, err := a.taskSvc.Toggle(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		unauthorizedJSON(w, credentialsDetail)
		return
	}
	if err := a.taskSvc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		taskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
