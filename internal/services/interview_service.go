package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/hireground/internal/config"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/events"
	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewService struct {
	DB         *gorm.DB
	Events     events.Publisher
	DefaultTTL time.Duration
	Log        *slog.Logger

	now func() time.Time
}

func NewInterviewService(db *gorm.DB, pub events.Publisher, defaultTTL time.Duration, log *slog.Logger) *InterviewService {
	return &InterviewService{DB: db, Events: pub, DefaultTTL: defaultTTL, Log: log, now: time.Now}
}

// Create issues an interview. When it is tied to an application, the
// recruiter must own the job the application was made for.
func (s *InterviewService) Create(ctx context.Context, recruiter *models.User, req dtos.InterviewCreateRequest) (*models.Interview, error) {
	iv := &models.Interview{
		ID:            uuid.NewString(),
		ApplicationID: req.ApplicationID,
		CreatedByID:   recruiter.ID,
		Title:         strings.TrimSpace(req.Title),
		Questions:     req.Questions,
		Status:        models.InterviewPending,
	}
	if err := iv.Definition().Validate(); err != nil {
		return nil, newError(ErrInvalidInput, err.Error())
	}
	ttl := s.DefaultTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}
	if ttl > 0 {
		exp := s.now().Add(ttl).UTC()
		iv.ExpiresAt = &exp
	}

	var app *models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ApplicationID != nil {
			var err error
			app, err = s.ownedApplication(tx, *req.ApplicationID, recruiter.ID)
			if err != nil {
				return err
			}
		}
		if err := tx.Create(iv).Error; err != nil {
			return err
		}
		if app == nil {
			return nil
		}
		return tx.Create(&models.JobEvent{
			JobID:         app.JobID,
			ApplicationID: &app.ID,
			EventType:     models.EventInterviewScheduled,
			Details:       fmt.Sprintf("Interview %s sent (%d questions)", iv.ID, iv.Questions.Total()),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("🎤 Interview created", "interview_id", iv.ID, "questions", iv.Questions.Total())
	if app != nil {
		s.publish(ctx, events.InterviewScheduled, map[string]any{
			"interview_id":   iv.ID,
			"application_id": app.ID,
			"candidate_id":   app.CandidateID,
			"expires_at":     iv.ExpiresAt,
		})
	}
	return iv, nil
}

func (s *InterviewService) ownedApplication(tx *gorm.DB, applicationID, recruiterID uint) (*models.Application, error) {
	var app models.Application
	err := tx.Preload("Job").First(&app, applicationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationMissing
	}
	if err != nil {
		return nil, err
	}
	if app.Job.PostedByID != recruiterID {
		return nil, ErrNotJobOwner
	}
	return &app, nil
}

// Get loads an interview that can still be taken.
func (s *InterviewService) Get(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if iv.Expired(s.now()) {
		return nil, interview.ErrExpired
	}
	return iv, nil
}

func (s *InterviewService) find(tx *gorm.DB, id string) (*models.Interview, error) {
	var iv models.Interview
	err := tx.First(&iv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, interview.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Submit stores the candidate's responses in question order. A blank entry
// marks its question unanswered and stays in place so later answers keep
// their questions; trailing blanks are trimmed. An interview accepts exactly
// one submission.
func (s *InterviewService) Submit(ctx context.Context, id string, responses []string) (interview.Ack, error) {
	cleaned, answered := positionalResponses(responses)
	if answered == 0 {
		return interview.Ack{}, ErrNoResponses
	}

	var (
		iv  *models.Interview
		sub models.InterviewSubmission
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		iv, err = s.find(forUpdate(tx), id)
		if err != nil {
			return err
		}
		if iv.Expired(s.now()) {
			return interview.ErrExpired
		}
		if iv.Status == models.InterviewSubmitted {
			return ErrAlreadySubmitted
		}
		if total := iv.Questions.Total(); len(cleaned) > total {
			return newError(ErrInvalidInput, fmt.Sprintf("got %d responses for %d questions", len(cleaned), total))
		}

		sub = models.InterviewSubmission{
			InterviewID: iv.ID,
			Responses:   cleaned,
			SubmittedAt: s.now().UTC(),
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		if err := tx.Model(iv).Update("status", models.InterviewSubmitted).Error; err != nil {
			return err
		}
		if iv.ApplicationID == nil {
			return nil
		}
		var app models.Application
		if err := tx.First(&app, *iv.ApplicationID).Error; err != nil {
			return err
		}
		if err := tx.Model(&app).Update("status", models.ApplicationInterviewing).Error; err != nil {
			return err
		}
		return tx.Create(&models.JobEvent{
			JobID:         app.JobID,
			ApplicationID: &app.ID,
			EventType:     models.EventInterviewSubmitted,
			Details:       fmt.Sprintf("Interview %s submitted with %d responses", iv.ID, answered),
		}).Error
	})
	if err != nil {
		return interview.Ack{}, err
	}

	s.Log.Info("✅ Interview submitted", "interview_id", iv.ID, "responses", answered)
	s.publish(ctx, events.InterviewSubmitted, map[string]any{
		"interview_id":   iv.ID,
		"application_id": iv.ApplicationID,
		"responses":      answered,
	})
	return interview.Ack{InterviewID: iv.ID, Received: answered, SubmittedAt: sub.SubmittedAt}, nil
}

// positionalResponses blanks out whitespace-only entries, trims trailing
// blanks and counts the answered questions.
func positionalResponses(responses []string) ([]string, int) {
	out := make([]string, len(responses))
	answered := 0
	for i, r := range responses {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out[i] = r
		answered++
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, answered
}

// Submission returns the stored responses of a submitted interview.
func (s *InterviewService) Submission(ctx context.Context, id string) (*models.Interview, *models.InterviewSubmission, error) {
	iv, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, nil, err
	}
	var sub models.InterviewSubmission
	err = s.DB.WithContext(ctx).Where("interview_id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotSubmitted
	}
	if err != nil {
		return nil, nil, err
	}
	return iv, &sub, nil
}

// Seed inserts interview definitions that do not exist yet and reports how many were added.
func (s *InterviewService) Seed(ctx context.Context, seeds []config.InterviewSeed) (int, error) {
	added := 0
	for _, seed := range seeds {
		if err := seed.Validate(); err != nil {
			return added, fmt.Errorf("seed %q: %w", seed.ID, err)
		}
		iv := models.Interview{
			ID:        seed.ID,
			Title:     seed.Title,
			Questions: seed.Questions,
			Status:    models.InterviewPending,
		}
		if seed.TTL > 0 {
			exp := s.now().Add(seed.TTL).UTC()
			iv.ExpiresAt = &exp
		}
		res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&iv)
		if res.Error != nil {
			return added, fmt.Errorf("seed %q: %w", seed.ID, res.Error)
		}
		added += int(res.RowsAffected)
	}
	if added > 0 {
		s.Log.Info("🌱 Interview definitions seeded", "added", added, "total", len(seeds))
	}
	return added, nil
}

// PendingForCandidate lists interviews sent for the candidate's applications that are still open.
func (s *InterviewService) PendingForCandidate(ctx context.Context, candidateID uint) ([]models.Interview, error) {
	var ivs []models.Interview
	err := s.DB.WithContext(ctx).
		Joins("JOIN applications ON applications.id = interviews.application_id").
		Where("applications.candidate_id = ? AND interviews.status = ?", candidateID, models.InterviewPending).
		Where("interviews.expires_at IS NULL OR interviews.expires_at > ?", s.now()).
		Order("interviews.created_at DESC").
		Find(&ivs).Error
	return ivs, err
}

// forUpdate row-locks the next read. SQLite has no row locks; its write
// transaction already serializes submitters.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *InterviewService) publish(ctx context.Context, key string, payload any) {
	if err := s.Events.Publish(ctx, key, payload); err != nil {
		s.Log.Warn("⚠️ Event publish failed", "routing_key", key, "error", err)
	}
}
