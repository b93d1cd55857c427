package handler_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/assignamate/assignamate-api/internal/dto"
	"github.com/assignamate/assignamate-api/internal/models"
)

func assignmentMultipart(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("questionFile", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func validAssignmentFields() map[string]string {
	return map[string]string{
		"title":       "Sorting Algorithms",
		"description": "Implement quicksort and mergesort",
		"due_date":    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"max_points":  "100",
	}
}

func TestAssignmentHandlerCreate(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)

	fields := validAssignmentFields()
	fields["instructions"] = "Benchmark both on 1M elements"
	body, contentType := assignmentMultipart(t, fields, "starter.zip", []byte("PK\x03\x04"))

	req := httptest.NewRequest("POST", "/api/assignments", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(asUser(req, teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, created.Success)
	require.Equal(t, "assignment created", created.Message)
	require.NotZero(t, created.Data.ID)
	require.Equal(t, "Sorting Algorithms", created.Data.Title)
	require.Equal(t, 100.0, created.Data.MaxPoints)
	require.Equal(t, "Benchmark both on 1M elements", created.Data.Instructions)
	require.Equal(t, teacher.ID, created.Data.Teacher.ID)
	require.NotNil(t, created.Data.QuestionFile)
	require.Equal(t, "starter.zip", created.Data.QuestionFile.OriginalName)
}

func TestAssignmentHandlerCreateValidation(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)

	fields := validAssignmentFields()
	delete(fields, "title")
	body, contentType := assignmentMultipart(t, fields, "", nil)

	req := httptest.NewRequest("POST", "/api/assignments", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(asUser(req, teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandlerCreateBadMaxPoints(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)

	fields := validAssignmentFields()
	fields["max_points"] = "a lot"
	body, contentType := assignmentMultipart(t, fields, "", nil)

	req := httptest.NewRequest("POST", "/api/assignments", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(asUser(req, teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandlerCreateRequiresTeacherRole(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "sam@example.com")

	body, contentType := assignmentMultipart(t, validAssignmentFields(), "", nil)
	req := httptest.NewRequest("POST", "/api/assignments", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(asUser(req, student))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAssignmentHandlerCreateUnauthenticated(t *testing.T) {
	app, _ := setupApp(t)

	body, contentType := assignmentMultipart(t, validAssignmentFields(), "", nil)
	req := httptest.NewRequest("POST", "/api/assignments", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAssignmentHandlerGet(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)
	student := seedStudent(t, db, "sam@example.com")
	assignment := seedAssignment(t, db, teacher.ID, time.Now().Add(24*time.Hour))

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/assignments/%d", assignment.ID), nil)
	resp, err := app.Test(asUser(req, student))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fetched struct {
		Data dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &fetched)
	require.Equal(t, assignment.Title, fetched.Data.Title)

	req = httptest.NewRequest("GET", "/api/assignments/999", nil)
	resp, err = app.Test(asUser(req, student))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssignmentHandlerDelete(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)
	assignment := seedAssignment(t, db, teacher.ID, time.Now().Add(24*time.Hour))

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/assignments/%d", assignment.ID), nil)
	resp, err := app.Test(asUser(req, teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAssignmentHandlerDeleteBlockedBySubmissions(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)
	student := seedStudent(t, db, "sam@example.com")
	assignment := seedAssignment(t, db, teacher.ID, time.Now().Add(24*time.Hour))
	submitAnswer(t, app, student, assignment.ID, "answer")

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/assignments/%d", assignment.ID), nil)
	resp, err := app.Test(asUser(req, teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Both records survive.
	var assignments, submissions int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&assignments).Error)
	require.NoError(t, db.Model(&models.Submission{}).Count(&submissions).Error)
	require.Equal(t, int64(1), assignments)
	require.Equal(t, int64(1), submissions)
}

func TestAssignmentHandlerList(t *testing.T) {
	app, db := setupApp(t)
	teacher := seedTeacher(t, db)
	student := seedStudent(t, db, "sam@example.com")
	seedAssignment(t, db, teacher.ID, time.Now().Add(24*time.Hour))

	req := httptest.NewRequest("GET", "/api/assignments", nil)
	resp, err := app.Test(asUser(req, student))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed struct {
		Data []dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &listed)
	require.Len(t, listed.Data, 1)
	require.Equal(t, teacher.Name, listed.Data[0].Teacher.Name)
}
