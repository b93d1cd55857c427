package models

import "time"

// Submission represents one student's answer to one assignment. The
// compound unique index enforces at most one submission per
// (assignment, student) pair, including under concurrent inserts.
type Submission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AssignmentID   uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID      uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	SubmissionText string     `gorm:"type:text" json:"submission_text"`
	SubmissionFile FileMeta   `gorm:"embedded;embeddedPrefix:submission_file_" json:"submission_file"`
	SubmittedAt    time.Time  `gorm:"not null" json:"submitted_at"`
	Status         string     `gorm:"size:32;not null" json:"status"`
	GradePoints    *float64   `json:"grade_points"`
	GradeFeedback  string     `gorm:"type:text" json:"grade_feedback"`
	GradedAt       *time.Time `json:"graded_at"`
	GradedBy       *uint      `json:"graded_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Assignment     Assignment `gorm:"constraint:OnUpdate:CASCADE" json:"assignment"`
	Student        User       `gorm:"constraint:OnUpdate:CASCADE" json:"student"`
}

const (
	// SubmissionStatusSubmitted indicates the answer arrived before the deadline.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusLate indicates the answer arrived after the deadline.
	SubmissionStatusLate = "late"
	// SubmissionStatusGraded indicates a grade has been attached.
	SubmissionStatusGraded = "graded"
)

// DeriveStatus computes the submission status from the moment of the action,
// the assignment deadline and whether a grade is attached. A grade always
// wins; timing is only consulted for ungraded submissions. The result is
// stored once at the relevant action and never recomputed retroactively.
func DeriveStatus(now, dueDate time.Time, hasGrade bool) string {
	if hasGrade {
		return SubmissionStatusGraded
	}
	if now.After(dueDate) {
		return SubmissionStatusLate
	}
	return SubmissionStatusSubmitted
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// HasContent reports whether the submission carries an answer at all.
func (s Submission) HasContent() bool {
	return s.SubmissionText != "" || !s.SubmissionFile.IsZero()
}
