package database

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the single role an account carries.
type Role string

const (
	RoleSeeker     Role = "seeker"
	RoleEmployer   Role = "employer"
	RoleUnassigned Role = "unassigned"
)

// ParseRole accepts the stored spelling and a couple of CLI aliases.
func ParseRole(s string) (Role, bool) {
	switch s {
	case string(RoleSeeker):
		return RoleSeeker, true
	case string(RoleEmployer):
		return RoleEmployer, true
	case string(RoleUnassigned), "none", "":
		return RoleUnassigned, true
	}
	return "", false
}

// Account is a login identity.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"size:254"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:16;not null;default:unassigned"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) IsSeeker() bool   { return a != nil && a.Role == RoleSeeker }
func (a *Account) IsEmployer() bool { return a != nil && a.Role == RoleEmployer }

// SeekerProfile extends a seeker account.
type SeekerProfile struct {
	ID         uint    `gorm:"primaryKey"`
	AccountID  uint    `gorm:"uniqueIndex;not null"`
	Account    Account `gorm:"constraint:OnDelete:CASCADE"`
	Skills     string  `gorm:"type:text"`
	Experience string  `gorm:"type:text"`
	Education  string  `gorm:"type:text"`
	// ResumeKey is the object key of a resume kept on the profile, if any.
	ResumeKey string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployerProfile extends an employer account.
type EmployerProfile struct {
	ID                 uint    `gorm:"primaryKey"`
	AccountID          uint    `gorm:"uniqueIndex;not null"`
	Account            Account `gorm:"constraint:OnDelete:CASCADE"`
	CompanyName        string  `gorm:"size:255"`
	CompanyDescription string  `gorm:"type:text"`
	Website            string  `gorm:"size:200"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// JobType enumerates the kinds of posting.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-Time"
	JobTypePartTime   JobType = "Part-Time"
	JobTypeRemote     JobType = "Remote"
	JobTypeInternship JobType = "Internship"
)

// JobTypes lists every job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeRemote, JobTypeInternship}

// Valid reports whether t is one of JobTypes.
func (t JobType) Valid() bool {
	for _, known := range JobTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Job is an employer-owned posting. The creator never changes after insert.
type Job struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"size:200;not null"`
	Company     string         `gorm:"size:150;not null"`
	Location    string         `gorm:"size:120;not null"`
	JobType     JobType        `gorm:"size:20;not null;index"`
	Description string         `gorm:"type:text"`
	Deadline    datatypes.Date `gorm:"not null"`
	CreatedByID uint           `gorm:"index;not null"`
	CreatedBy   Account        `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "applied"
	StatusReview   ApplicationStatus = "review"
	StatusRejected ApplicationStatus = "rejected"
	StatusAccepted ApplicationStatus = "accepted"
)

// CanTransitionTo reports whether an employer may move an application from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusApplied:
		return next == StatusReview
	case StatusReview:
		return next == StatusRejected || next == StatusAccepted
	}
	return false
}

// Application links a seeker to a job. (JobID, ApplicantID) is unique.
type Application struct {
	ID          uint              `gorm:"primaryKey"`
	JobID       uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant"`
	Job         Job               `gorm:"constraint:OnDelete:CASCADE"`
	ApplicantID uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant;index"`
	Applicant   Account           `gorm:"constraint:OnDelete:CASCADE"`
	ResumeKey   string            `gorm:"size:512;not null"`
	CoverNote   string            `gorm:"type:text"`
	Status      ApplicationStatus `gorm:"size:16;not null;default:applied"`
	AppliedAt   time.Time         `gorm:"not null"`
}
