package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/assignamate/assignamate-api/internal/dto"
	"github.com/assignamate/assignamate-api/internal/models"
)

type assignmentFixture struct {
	users       *memoryUserRepo
	assignments *memoryAssignmentRepo
	submissions *memorySubmissionRepo
	uploader    *stubUploader
	activity    *recordingActivity
	service     AssignmentService
	teacher     models.User
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	users := newMemoryUserRepo()
	assignments := newMemoryAssignmentRepo(users)
	submissions := newMemorySubmissionRepo(assignments, users)
	uploader := &stubUploader{}
	activity := &recordingActivity{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	teacher := models.User{Name: "Ada Teacher", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, users.Create(context.Background(), &teacher))

	svc := NewAssignmentService(assignments, submissions, validate, uploader, []string{".pdf", ".txt"}, activity, testLogger())

	return &assignmentFixture{
		users:       users,
		assignments: assignments,
		submissions: submissions,
		uploader:    uploader,
		activity:    activity,
		service:     svc,
		teacher:     teacher,
	}
}

func (f *assignmentFixture) teacherActor() ActivityActor {
	return ActivityActor{ID: f.teacher.ID, Role: models.RoleTeacher}
}

func validCreateRequest() dto.AssignmentCreateRequest {
	return dto.AssignmentCreateRequest{
		Title:       "Graph Traversal",
		Description: "Implement BFS and DFS",
		DueDate:     time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		MaxPoints:   100,
	}
}

func TestAssignmentServiceCreate(t *testing.T) {
	f := newAssignmentFixture(t)

	payload := validCreateRequest()
	payload.Instructions = "Submit a single archive"

	result, err := f.service.Create(context.Background(), payload, nil, f.teacherActor())
	require.NoError(t, err)
	require.NotZero(t, result.ID)
	require.Equal(t, "Graph Traversal", result.Title)
	require.Equal(t, float64(100), result.MaxPoints)
	require.Equal(t, "Submit a single archive", result.Instructions)
	require.Equal(t, f.teacher.ID, result.Teacher.ID)
	require.Equal(t, "Ada Teacher", result.Teacher.Name)
	require.Nil(t, result.QuestionFile)

	require.Len(t, f.activity.entries, 1)
	require.Equal(t, "assignment.created", f.activity.entries[0].Action)
}

func TestAssignmentServiceCreateWithQuestionFile(t *testing.T) {
	f := newAssignmentFixture(t)
	file := newTestFileHeader(t, "questions.pdf", []byte("%PDF-1.4 fake"))

	result, err := f.service.Create(context.Background(), validCreateRequest(), file, f.teacherActor())
	require.NoError(t, err)
	require.NotNil(t, result.QuestionFile)
	require.Equal(t, "questions.pdf", result.QuestionFile.OriginalName)
	require.Equal(t, 1, f.uploader.uploads)
}

func TestAssignmentServiceCreateValidation(t *testing.T) {
	f := newAssignmentFixture(t)

	cases := map[string]func(*dto.AssignmentCreateRequest){
		"missing title":       func(r *dto.AssignmentCreateRequest) { r.Title = "" },
		"missing description": func(r *dto.AssignmentCreateRequest) { r.Description = "" },
		"missing due date":    func(r *dto.AssignmentCreateRequest) { r.DueDate = "" },
		"malformed due date":  func(r *dto.AssignmentCreateRequest) { r.DueDate = "next tuesday" },
		"zero max points":     func(r *dto.AssignmentCreateRequest) { r.MaxPoints = 0 },
		"negative max points": func(r *dto.AssignmentCreateRequest) { r.MaxPoints = -5 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			payload := validCreateRequest()
			mutate(&payload)

			_, err := f.service.Create(context.Background(), payload, nil, f.teacherActor())
			var validationErrs validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
		})
	}

	require.Empty(t, f.assignments.assignments)
}

func TestAssignmentServiceGetNotFound(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.Get(context.Background(), 12)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentServiceDelete(t *testing.T) {
	f := newAssignmentFixture(t)

	created, err := f.service.Create(context.Background(), validCreateRequest(), nil, f.teacherActor())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), created.ID, f.teacherActor()))
	require.Empty(t, f.assignments.assignments)

	require.Len(t, f.activity.entries, 2)
	require.Equal(t, "assignment.deleted", f.activity.entries[1].Action)
}

func TestAssignmentServiceDeleteNotFound(t *testing.T) {
	f := newAssignmentFixture(t)

	err := f.service.Delete(context.Background(), 7, f.teacherActor())
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentServiceDeleteBlockedBySubmissions(t *testing.T) {
	f := newAssignmentFixture(t)

	created, err := f.service.Create(context.Background(), validCreateRequest(), nil, f.teacherActor())
	require.NoError(t, err)

	student := models.User{Name: "Sam Student", Email: "sam@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.users.Create(context.Background(), &student))
	submission := models.Submission{
		AssignmentID:   created.ID,
		StudentID:      student.ID,
		SubmissionText: "answer",
		SubmittedAt:    time.Now(),
		Status:         models.SubmissionStatusSubmitted,
	}
	require.NoError(t, f.submissions.Create(context.Background(), &submission))

	err = f.service.Delete(context.Background(), created.ID, f.teacherActor())
	require.ErrorIs(t, err, ErrAssignmentHasSubmissions)

	// Assignment and submission both survive the rejected delete.
	_, err = f.assignments.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = f.submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
}

func TestAssignmentServiceListNewestFirst(t *testing.T) {
	f := newAssignmentFixture(t)

	first := models.Assignment{Title: "Old", Description: "d", DueDate: time.Now().Add(time.Hour), MaxPoints: 10, TeacherID: f.teacher.ID}
	require.NoError(t, f.assignments.Create(context.Background(), &first))
	stale := f.assignments.assignments[first.ID]
	stale.CreatedAt = time.Now().Add(-time.Hour)
	f.assignments.assignments[first.ID] = stale

	second := models.Assignment{Title: "New", Description: "d", DueDate: time.Now().Add(time.Hour), MaxPoints: 10, TeacherID: f.teacher.ID}
	require.NoError(t, f.assignments.Create(context.Background(), &second))

	results, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "New", results[0].Title)
	require.Equal(t, "Old", results[1].Title)
	require.Equal(t, "Ada Teacher", results[0].Teacher.Name)
}
