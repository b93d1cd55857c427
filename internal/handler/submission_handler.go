package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assignamate/assignamate-api/internal/dto"
	"github.com/assignamate/assignamate-api/internal/middleware"
	"github.com/assignamate/assignamate-api/internal/models"
	"github.com/assignamate/assignamate-api/internal/service"
	"github.com/assignamate/assignamate-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The full
// listing and grading belong to teachers; creation belongs to students.
func (h *SubmissionHandler) Register(router fiber.Router, submitLimiter fiber.Handler) {
	router.Get("", middleware.WithAuth(h.list, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
	router.Get("/my-submissions/:studentId", h.listMine)
	create := middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleStudent})
	if submitLimiter != nil {
		router.Post("/:assignmentId", submitLimiter, create)
	} else {
		router.Post("/:assignmentId", create)
	}
	router.Put("/:id/grade", middleware.WithAuth(h.grade, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	submissions, err := h.service.List(c.Context(), dto.SubmissionFilter{})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

// listMine returns the submissions of one student. Students may only view
// their own; teachers may view any student's.
func (h *SubmissionHandler) listMine(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actor := actorFromContext(c)
	if actor.Role != models.RoleTeacher && actor.ID != studentID {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	submissions, err := h.service.List(c.Context(), dto.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.SubmissionCreateRequest{
		SubmissionText: c.FormValue("submissionText"),
	}

	file, err := c.FormFile("submissionFile")
	if err != nil {
		file = nil
	}

	submission, err := h.service.Create(c.Context(), assignmentID, payload, file, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", submission)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Grade(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "student not found")
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.SendError(c, fiber.StatusConflict, "assignment already submitted")
	case errors.Is(err, service.ErrEmptySubmission):
		return utils.SendError(c, fiber.StatusBadRequest, "either submission text or file is required")
	case errors.Is(err, service.ErrPointsOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "points exceed assignment max")
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
