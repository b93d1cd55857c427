package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/assignamate/assignamate-api/internal/dto"
	"github.com/assignamate/assignamate-api/internal/models"
	"github.com/assignamate/assignamate-api/internal/repository"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrAssignmentHasSubmissions indicates the assignment cannot be deleted
// while submissions reference it.
var ErrAssignmentHasSubmissions = errors.New("assignment has submissions")

// AssignmentService exposes assignment domain use cases.
type AssignmentService interface {
	List(ctx context.Context) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	uploader    FileUploader
	allowedExts []string
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validate *validator.Validate, uploader FileUploader, allowedExts []string, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validate,
		uploader:    uploader,
		allowedExts: allowedExts,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	assignment := models.Assignment{
		Title:        payload.Title,
		Description:  payload.Description,
		DueDate:      dueDate,
		MaxPoints:    payload.MaxPoints,
		Instructions: payload.Instructions,
		TeacherID:    actor.ID,
	}

	if file != nil {
		meta, err := storeAttachment(ctx, s.uploader, file, s.allowedExts)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.QuestionFile = meta
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	// Reload so the teacher reference is resolvable in the response.
	created, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", created.ID).Msg("assignment created")

	if s.activity != nil {
		id := created.ID
		_ = s.activity.Record(ctx, actor, ActivityEntry{
			Action:     "assignment.created",
			EntityType: "assignment",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"title":      created.Title,
				"due_date":   created.DueDate,
				"max_points": created.MaxPoints,
			},
		})
	}

	return dto.NewAssignmentResponse(created), nil
}

// Delete removes an assignment. Deletion is rejected while submissions
// reference the assignment so graded work is never destroyed implicitly.
func (s *assignmentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if _, err := s.assignments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	count, err := s.submissions.CountByAssignment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAssignmentHasSubmissions
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	if s.activity != nil {
		entityID := id
		_ = s.activity.Record(ctx, actor, ActivityEntry{
			Action:     "assignment.deleted",
			EntityType: "assignment",
			EntityID:   &entityID,
		})
	}

	return nil
}
