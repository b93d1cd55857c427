package dto

import (
	"time"

	"github.com/assignamate/assignamate-api/internal/models"
)

// AssignmentCreateRequest describes the multipart payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title        string  `form:"title" validate:"required,min=3"`
	Description  string  `form:"description" validate:"required,min=3"`
	DueDate      string  `form:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	MaxPoints    float64 `form:"max_points" validate:"required,gt=0"`
	Instructions string  `form:"instructions" validate:"omitempty"`
}

// TeacherLite summarizes the owning teacher in assignment responses.
type TeacherLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	DueDate      time.Time         `json:"due_date"`
	MaxPoints    float64           `json:"max_points"`
	Instructions string            `json:"instructions,omitempty"`
	QuestionFile *FileMetaResponse `json:"question_file,omitempty"`
	Teacher      TeacherLite       `json:"teacher"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		DueDate:      model.DueDate,
		MaxPoints:    model.MaxPoints,
		Instructions: model.Instructions,
		QuestionFile: NewFileMetaResponse(model.QuestionFile),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Teacher.ID != 0 {
		response.Teacher = TeacherLite{
			ID:    model.Teacher.ID,
			Name:  model.Teacher.Name,
			Email: model.Teacher.Email,
		}
	}

	return response
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
