package services

import (
	"context"

	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	DB         *gorm.DB
	Interviews *InterviewService
}

func NewDashboardService(db *gorm.DB, interviews *InterviewService) *DashboardService {
	return &DashboardService{DB: db, Interviews: interviews}
}

// For builds the dashboard that matches the user's role.
func (s *DashboardService) For(ctx context.Context, user *models.User) (*dtos.DashboardResponse, error) {
	resp := &dtos.DashboardResponse{Role: user.Role}
	var err error
	switch user.Role {
	case models.RoleRecruiter:
		resp.Recruiter, err = s.Recruiter(ctx, user.ID)
	default:
		resp.Candidate, err = s.Candidate(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *DashboardService) Candidate(ctx context.Context, userID uint) (*dtos.CandidateDashboard, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Preload("Job.Company").
		Where("candidate_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	pending, err := s.Interviews.PendingForCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dtos.CandidateDashboard{
		Applications:      apps,
		PendingInterviews: make([]dtos.InterviewResponse, 0, len(pending)),
	}
	for i := range pending {
		out.PendingInterviews = append(out.PendingInterviews, dtos.NewInterviewResponse(&pending[i]))
	}
	return out, nil
}

func (s *DashboardService) Recruiter(ctx context.Context, userID uint) (*dtos.RecruiterDashboard, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Preload("Company").
		Where("posted_by_id = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	var counts []struct {
		JobID uint
		Total int64
	}
	if len(jobs) > 0 {
		ids := make([]uint, len(jobs))
		for i, j := range jobs {
			ids[i] = j.ID
		}
		err = s.DB.WithContext(ctx).Model(&models.Application{}).
			Select("job_id, COUNT(*) AS total").
			Where("job_id IN ?", ids).
			Group("job_id").
			Scan(&counts).Error
		if err != nil {
			return nil, err
		}
	}
	byJob := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byJob[c.JobID] = c.Total
	}

	out := &dtos.RecruiterDashboard{Jobs: make([]dtos.JobSummary, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, dtos.JobSummary{Job: j, Applicants: byJob[j.ID]})
	}
	return out, nil
}
