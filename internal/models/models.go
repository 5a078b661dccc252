package models

import (
	"time"

	"github.com/justsurfingit/hireground/internal/interview"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:'candidate'" json:"role"`

	Profile Profile `gorm:"foreignKey:UserID" json:"profile"`
}

type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`

	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Phone      string   `json:"phone"`
	Location   string   `json:"location"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Skills     []string `gorm:"type:text;serializer:json" json:"skills"`
	Experience string   `gorm:"type:text" json:"experience"`
	Bio        string   `gorm:"type:text" json:"bio"`

	Resume *ResumeFile `gorm:"type:text;serializer:json" json:"resume,omitempty"`
}

// ResumeFile describes the resume stored for a profile. The file itself lives in object storage.
type ResumeFile struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	// Excerpt is the start of the extracted text, empty when the format cannot be read.
	Excerpt string `json:"excerpt,omitempty"`
}

// AuthToken is an opaque bearer token issued at login.
type AuthToken struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// 'omitempty' prevents infinite loops when fetching a Job -> Company -> Jobs -> ...
	Jobs []Job `json:"jobs,omitempty"`
}

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type Job struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID uint `json:"company_id"`
	// Association: GORM needs Preload() to fill this
	Company Company `json:"company"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `json:"location"`
	Remote      bool      `json:"remote"`
	SalaryRange string    `json:"salary_range"`
	Skills      []string  `gorm:"type:text;serializer:json" json:"skills"`
	JobLink     string    `json:"job_link"`
	Status      JobStatus `gorm:"default:'open'" json:"status"`
	PostedByID  uint      `gorm:"index" json:"posted_by_id"`
}

type ApplicationStatus string

const (
	ApplicationApplied      ApplicationStatus = "applied"
	ApplicationInterviewing ApplicationStatus = "interviewing"
	ApplicationRejected     ApplicationStatus = "rejected"
	ApplicationOffer        ApplicationStatus = "offer"
)

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID       uint `gorm:"uniqueIndex:idx_application_job_candidate;not null" json:"job_id"`
	Job         Job  `json:"job"`
	CandidateID uint `gorm:"uniqueIndex:idx_application_job_candidate;not null" json:"candidate_id"`

	CoverLetter string            `gorm:"type:text" json:"cover_letter"`
	Status      ApplicationStatus `gorm:"default:'applied'" json:"status"`
	ResumeKey   string            `json:"resume_key"`
}

type InterviewStatus string

const (
	InterviewPending   InterviewStatus = "pending"
	InterviewSubmitted InterviewStatus = "submitted"
)

// Interview is a recruiter-issued interview. Its questions are stored as one JSON document.
type Interview struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID *uint                 `gorm:"index" json:"application_id,omitempty"`
	CreatedByID   uint                  `gorm:"index" json:"created_by_id"`
	Title         string                `json:"title"`
	Questions     interview.QuestionSet `gorm:"type:text;serializer:json" json:"questions"`
	ExpiresAt     *time.Time            `json:"expires_at,omitempty"`
	Status        InterviewStatus       `gorm:"default:'pending'" json:"status"`
}

// Definition converts the stored row into the session-level definition.
func (i Interview) Definition() interview.Definition {
	return interview.Definition{ID: i.ID, Title: i.Title, Questions: i.Questions}
}

// Expired reports whether the interview can no longer be taken at now.
func (i Interview) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

type InterviewSubmission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InterviewID string    `gorm:"uniqueIndex;not null" json:"interview_id"`
	Responses   []string  `gorm:"type:text;serializer:json" json:"responses"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type JobEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	JobID         uint      `gorm:"index" json:"job_id"`
	ApplicationID *uint     `gorm:"index" json:"application_id,omitempty"`
	EventType     string    `json:"event_type"`
	Details       string    `gorm:"type:text" json:"details"`
}

const (
	EventApplicationSubmitted = "APPLICATION_SUBMITTED"
	EventInterviewScheduled   = "INTERVIEW_SCHEDULED"
	EventInterviewSubmitted   = "INTERVIEW_SUBMITTED"
	EventJobClosed            = "JOB_CLOSED"
)

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Profile{}, &AuthToken{},
		&Company{}, &Job{}, &Application{},
		&Interview{}, &InterviewSubmission{}, &JobEvent{},
	}
}
