package entity

import (
	"slices"
	"time"
)

// Account is the aggregate root for a platform user.
// PasswordHash is a bcrypt hash; the plain password is never stored.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	FullName         string
	Role             Role
	AcceptTerms      bool
	Verified         bool
	VerificationCode string
	ResetOTP         string
	ResetOTPExpires  *time.Time
	EnrolledCourses  []string
	CreatedCourses   []string
	CreatedExams     []string
	AppliedExams     []AppliedExam
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ResetPending reports whether a password reset code is outstanding.
// Code and expiry are only meaningful together.
func (a *Account) ResetPending() bool {
	return a.ResetOTP != "" && a.ResetOTPExpires != nil
}

func (a *Account) IsEnrolled(courseID string) bool {
	return slices.Contains(a.EnrolledCourses, courseID)
}

func (a *Account) HasApplied(examID string) bool {
	for _, ae := range a.AppliedExams {
		if ae.ExamID == examID {
			return true
		}
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// AppliedExam records one exam application on an account.
type AppliedExam struct {
	ExamID    string            `json:"examId"`
	AppliedAt time.Time         `json:"appliedAt"`
	Status    ApplicationStatus `json:"status"`
}
