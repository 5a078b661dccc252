package services

import (
	"strings"

	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/models"
)

// MatcherService decides whether a job matches a search.
type MatcherService struct {
	// MinTermLength skips very short search terms to avoid false positives.
	// e.g. "a" or "i" would match nearly every posting.
	MinTermLength int
}

func NewMatcherService() *MatcherService {
	return &MatcherService{MinTermLength: 2}
}

// MatchJob applies the filter to a job. Every query term must hit the title,
// the company name or the skills/description.
func (s *MatcherService) MatchJob(job *models.Job, f dtos.JobFilter) bool {
	if f.Remote != nil && job.Remote != *f.Remote {
		return false
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		if !strings.Contains(strings.ToLower(job.Location), loc) {
			return false
		}
	}
	for _, term := range strings.Fields(strings.ToLower(f.Query)) {
		if len(term) < s.MinTermLength {
			continue
		}
		if !s.matchTerm(job, term) {
			return false
		}
	}
	return true
}

func (s *MatcherService) matchTerm(job *models.Job, term string) bool {
	// --- RULE 1: Title Match ---
	if strings.Contains(strings.ToLower(job.Title), term) {
		return true
	}
	// --- RULE 2: Company Name Match ---
	if strings.Contains(strings.ToLower(job.Company.Name), term) {
		return true
	}
	// --- RULE 3: Skill Match ---
	for _, skill := range job.Skills {
		if strings.EqualFold(skill, term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(job.Description), term)
}

// Filter returns the jobs that match f, keeping their order.
func (s *MatcherService) Filter(jobs []models.Job, f dtos.JobFilter) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if s.MatchJob(&jobs[i], f) {
			out = append(out, jobs[i])
		}
	}
	return out
}
