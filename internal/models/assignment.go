package models

import "time"

// Assignment represents a task definition created by a teacher.
type Assignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	DueDate      time.Time `gorm:"not null" json:"due_date"`
	MaxPoints    float64   `gorm:"not null" json:"max_points"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	QuestionFile FileMeta  `gorm:"embedded;embeddedPrefix:question_file_" json:"question_file"`
	TeacherID    uint      `gorm:"not null" json:"teacher_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Teacher      User      `json:"teacher"`
	Submissions  []Submission
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
