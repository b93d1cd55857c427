package dto

import (
	"time"

	"github.com/assignamate/assignamate-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for submitting an answer.
// The acting student is taken from the authenticated session, not the body.
type SubmissionCreateRequest struct {
	SubmissionText string `form:"submissionText" validate:"omitempty"`
}

// GradeSubmissionRequest is the payload for attaching or replacing a grade.
type GradeSubmissionRequest struct {
	Points   float64 `json:"points" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"omitempty"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	StudentID *uint `query:"student_id"`
}

// GradeResponse serializes the grade attached to a submission.
type GradeResponse struct {
	Points   float64   `json:"points"`
	Feedback string    `json:"feedback"`
	GradedAt time.Time `json:"graded_at"`
	GradedBy *uint     `json:"graded_by,omitempty"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	DueDate      time.Time         `json:"due_date"`
	MaxPoints    float64           `json:"max_points"`
	QuestionFile *FileMetaResponse `json:"question_file,omitempty"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	StudentNumber string `json:"student_number,omitempty"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID             uint              `json:"id"`
	AssignmentID   uint              `json:"assignment_id"`
	StudentID      uint              `json:"student_id"`
	SubmissionText string            `json:"submission_text,omitempty"`
	SubmissionFile *FileMetaResponse `json:"submission_file,omitempty"`
	SubmittedAt    time.Time         `json:"submitted_at"`
	Status         string            `json:"status"`
	Grade          *GradeResponse    `json:"grade,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Assignment     AssignmentLite    `json:"assignment"`
	Student        StudentLite       `json:"student"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:             model.ID,
		AssignmentID:   model.AssignmentID,
		StudentID:      model.StudentID,
		SubmissionText: model.SubmissionText,
		SubmissionFile: NewFileMetaResponse(model.SubmissionFile),
		SubmittedAt:    model.SubmittedAt,
		Status:         model.Status,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.GradePoints != nil {
		grade := &GradeResponse{
			Points:   *model.GradePoints,
			Feedback: model.GradeFeedback,
			GradedBy: model.GradedBy,
		}
		if model.GradedAt != nil {
			grade.GradedAt = *model.GradedAt
		}
		response.Grade = grade
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:           model.Assignment.ID,
			Title:        model.Assignment.Title,
			DueDate:      model.Assignment.DueDate,
			MaxPoints:    model.Assignment.MaxPoints,
			QuestionFile: NewFileMetaResponse(model.Assignment.QuestionFile),
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:            model.Student.ID,
			Name:          model.Student.Name,
			Email:         model.Student.Email,
			StudentNumber: model.Student.StudentNumber,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
