package dtos

import "github.com/justsurfingit/hireground/internal/models"

type CandidateDashboard struct {
	Applications      []models.Application `json:"applications"`
	PendingInterviews []InterviewResponse  `json:"pending_interviews"`
}

type JobSummary struct {
	Job        models.Job `json:"job"`
	Applicants int64      `json:"applicants"`
}

type RecruiterDashboard struct {
	Jobs []JobSummary `json:"jobs"`
}

type DashboardResponse struct {
	Role      models.Role         `json:"role"`
	Candidate *CandidateDashboard `json:"candidate,omitempty"`
	Recruiter *RecruiterDashboard `json:"recruiter,omitempty"`
}
