package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/events"
	"github.com/justsurfingit/hireground/internal/models"
	"gorm.io/gorm"
)

type JobService struct {
	DB      *gorm.DB
	Matcher *MatcherService
	Events  events.Publisher
	Log     *slog.Logger
}

func NewJobService(db *gorm.DB, matcher *MatcherService, pub events.Publisher, log *slog.Logger) *JobService {
	return &JobService{
		DB:      db,
		Matcher: matcher,
		Events:  pub,
		Log:     log,
	}
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest, postedBy uint) (*models.Job, error) {
	var company models.Company
	// it create an entry if it already don't exist
	err := s.DB.WithContext(ctx).Where(models.Company{Name: strings.TrimSpace(req.CompanyName)}).
		FirstOrCreate(&company).Error
	if err != nil {
		return nil, err
	}
	job := &models.Job{
		CompanyID:   company.ID,
		Company:     company,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Remote:      req.Remote,
		SalaryRange: req.SalaryRange,
		Skills:      req.TechStack,
		JobLink:     req.JobLink,
		Status:      models.JobOpen,
		PostedByID:  postedBy,
	}
	if err := s.DB.WithContext(ctx).Omit("Company").Create(job).Error; err != nil {
		return nil, err
	}
	s.Log.Info("📌 Job posted", "job_id", job.ID, "company", company.Name, "title", job.Title)
	return job, nil
}

// ListJobs returns the newest postings that match the filter.
func (s *JobService) ListJobs(ctx context.Context, f dtos.JobFilter) ([]models.Job, error) {
	q := s.DB.WithContext(ctx).Preload("Company").Order("created_at DESC")
	if !f.IncludeClosed {
		q = q.Where("status = ?", models.JobOpen)
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return s.Matcher.Filter(jobs, f), nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Preload("Company").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Apply records a candidate's application. The candidate must already have a resume on file.
func (s *JobService) Apply(ctx context.Context, jobID uint, candidate *models.User, coverLetter string) (*models.Application, error) {
	if candidate.Profile.Resume == nil {
		return nil, ErrResumeRequired
	}
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobOpen {
		return nil, ErrJobClosed
	}

	app := &models.Application{
		JobID:       job.ID,
		CandidateID: candidate.ID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      models.ApplicationApplied,
		ResumeKey:   candidate.Profile.Resume.Key,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Application{}).
			Where("job_id = ? AND candidate_id = ?", job.ID, candidate.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyApplied
		}
		if err := tx.Omit("Job").Create(app).Error; err != nil {
			return err
		}
		return tx.Create(&models.JobEvent{
			JobID:         job.ID,
			ApplicationID: &app.ID,
			EventType:     models.EventApplicationSubmitted,
			Details:       fmt.Sprintf("Candidate %d applied", candidate.ID),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	app.Job = *job

	s.Log.Info("📨 Application submitted", "job_id", job.ID, "application_id", app.ID, "candidate_id", candidate.ID)
	s.publish(ctx, events.ApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"job_id":         job.ID,
		"candidate_id":   candidate.ID,
		"resume_key":     app.ResumeKey,
	})
	return app, nil
}

// CloseJob stops a posting from accepting applications.
func (s *JobService) CloseJob(ctx context.Context, jobID uint, recruiter *models.User) (*models.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedByID != recruiter.ID {
		return nil, ErrNotJobOwner
	}
	if job.Status == models.JobClosed {
		return job, nil
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(job).Update("status", models.JobClosed).Error; err != nil {
			return err
		}
		return tx.Create(&models.JobEvent{
			JobID:     job.ID,
			EventType: models.EventJobClosed,
			Details:   "Closed by recruiter",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	job.Status = models.JobClosed
	s.Log.Info("🔒 Job closed", "job_id", job.ID)
	return job, nil
}

// publish logs a failed publish and carries on.
func (s *JobService) publish(ctx context.Context, key string, payload any) {
	if err := s.Events.Publish(ctx, key, payload); err != nil {
		s.Log.Warn("⚠️ Event publish failed", "routing_key", key, "error", err)
	}
}
