package dtos

import "github.com/justsurfingit/hireground/internal/models"

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type JobCreationRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Title       string `json:"role_title" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional Fields
	JobLink     string   `json:"job_link"`
	Location    string   `json:"location"`
	Remote      bool     `json:"remote"`
	SalaryRange string   `json:"salary_range"`
	TechStack   []string `json:"tech_stack"`
}

// JobFilter is the query string of GET /api/v1/jobs.
type JobFilter struct {
	Query    string `form:"q"`
	Location string `form:"location"`
	Remote   *bool  `form:"remote"`
	// IncludeClosed lists closed postings too; only recruiters see them.
	IncludeClosed bool `form:"-"`
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type ApplicationResponse struct {
	Application models.Application `json:"application"`
}

type JobListResponse struct {
	Jobs []models.Job `json:"jobs"`
}

// ExtractionResponse wraps the job draft produced from a raw posting.
type ExtractionResponse struct {
	Success bool               `json:"success"`
	Data    JobCreationRequest `json:"data"`
}
