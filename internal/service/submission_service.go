package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/assignamate/assignamate-api/internal/dto"
	"github.com/assignamate/assignamate-api/internal/models"
	"github.com/assignamate/assignamate-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrStudentNotFound indicates the acting identity does not resolve to a student account.
var ErrStudentNotFound = errors.New("student not found")

// ErrDuplicateSubmission indicates a submission already exists for the
// (assignment, student) pair. First submission wins.
var ErrDuplicateSubmission = errors.New("assignment already submitted")

// ErrEmptySubmission indicates neither answer text nor a file was provided.
var ErrEmptySubmission = errors.New("either submission text or file is required")

// ErrPointsOutOfRange indicates a grading score outside 0..assignment max points.
var ErrPointsOutOfRange = errors.New("points exceed assignment max")

// SubmissionService governs the submission lifecycle: creation, status
// derivation and grading.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Create(ctx context.Context, assignmentID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, id uint, payload dto.GradeSubmissionRequest, actor ActivityActor) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	uploader    FileUploader
	allowedExts []string
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, users repository.UserRepository, validate *validator.Validate, uploader FileUploader, allowedExts []string, activity ActivityRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		users:       users,
		validator:   validate,
		uploader:    uploader,
		allowedExts: allowedExts,
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	repoFilter := repository.SubmissionFilter{
		StudentID: filter.StudentID,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Create persists a new submission for the acting student. Preconditions are
// checked in order: assignment exists, actor resolves to a student account,
// no submission exists for the pair, the answer is non-empty. The uniqueness
// pre-read only serves the common case; under concurrent duplicates the
// losing insert hits the unique index and is translated to the same error.
func (s *submissionService) Create(ctx context.Context, assignmentID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	student, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.SubmissionResponse{}, ErrStudentNotFound
	}

	if _, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, student.ID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	text := strings.TrimSpace(payload.SubmissionText)
	if text == "" && file == nil {
		return dto.SubmissionResponse{}, ErrEmptySubmission
	}

	now := s.now()
	submission := models.Submission{
		AssignmentID:   assignment.ID,
		StudentID:      student.ID,
		SubmissionText: text,
		SubmittedAt:    now,
		Status:         models.DeriveStatus(now, assignment.DueDate, false),
	}

	if file != nil {
		meta, err := storeAttachment(ctx, s.uploader, file, s.allowedExts)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		submission.SubmissionFile = meta
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	// Reload with assignment and student resolved for the response.
	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("assignment_id", created.AssignmentID).
		Str("status", created.Status).
		Msg("submission created")

	if s.activity != nil {
		id := created.ID
		_ = s.activity.Record(ctx, actor, ActivityEntry{
			Action:     "submission.created",
			EntityType: "submission",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"assignment_id": created.AssignmentID,
				"status":        created.Status,
			},
		})
	}

	return dto.NewSubmissionResponse(created), nil
}

// Grade attaches or replaces the grade on a submission. Status becomes
// graded unconditionally and stays graded on re-grading; points and
// feedback are overwritten and the graded timestamp refreshed each call.
func (s *submissionService) Grade(ctx context.Context, id uint, payload dto.GradeSubmissionRequest, actor ActivityActor) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/assignamate/assignamate-api/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(id)),
		attribute.Int64("submission.grader_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if payload.Points < 0 || payload.Points > submission.Assignment.MaxPoints {
		span.SetStatus(codes.Error, "points_out_of_range")
		return dto.SubmissionResponse{}, ErrPointsOutOfRange
	}

	points := payload.Points
	gradedAt := s.now()
	gradedBy := actor.ID
	submission.GradePoints = &points
	submission.GradeFeedback = strings.TrimSpace(payload.Feedback)
	submission.GradedAt = &gradedAt
	submission.GradedBy = &gradedBy
	submission.Status = models.SubmissionStatusGraded

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", updated.ID).
		Float64("points", points).
		Msg("submission graded")

	if s.activity != nil {
		entityID := updated.ID
		_ = s.activity.Record(ctx, actor, ActivityEntry{
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"assignment_id": updated.AssignmentID,
				"student_id":    updated.StudentID,
				"points":        points,
			},
		})
	}

	span.SetAttributes(attribute.Float64("submission.points", points))

	return dto.NewSubmissionResponse(updated), nil
}
