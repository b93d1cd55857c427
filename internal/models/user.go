package models

import "time"

// Role values assignable to a user account.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a registered account, either a teacher or a student.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Role          string    `gorm:"size:32;not null" json:"role"`
	StudentNumber string    `gorm:"size:64" json:"student_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsTeacher reports whether the account may create and grade assignments.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
