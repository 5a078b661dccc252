package dtos

import (
	"time"

	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/models"
)

type InterviewCreateRequest struct {
	ApplicationID *uint                 `json:"application_id"`
	Title         string                `json:"title"`
	Questions     interview.QuestionSet `json:"questions"`
	// TTLHours overrides the default expiry; zero keeps it.
	TTLHours int `json:"ttl_hours" binding:"min=0"`
}

// InterviewResponse is the interview definition served to candidates.
type InterviewResponse struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title,omitempty"`
	Questions interview.QuestionSet  `json:"questions"`
	Status    models.InterviewStatus `json:"status"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
}

func NewInterviewResponse(iv *models.Interview) InterviewResponse {
	return InterviewResponse{
		ID:        iv.ID,
		Title:     iv.Title,
		Questions: iv.Questions,
		Status:    iv.Status,
		ExpiresAt: iv.ExpiresAt,
	}
}

type SubmitRequest struct {
	Responses []string `json:"responses"`
}

type QuestionScore struct {
	Stage    interview.Stage `json:"stage"`
	Question string          `json:"question"`
	Response string          `json:"response"`
	Score    int             `json:"score"`
}

type ReviewResponse struct {
	InterviewID    string          `json:"interview_id"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	Scores         []QuestionScore `json:"scores"`
	Overall        int             `json:"overall"`
	Recommendation string          `json:"recommendation"`
}
