package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/justsurfingit/hireground/internal/config"
	"github.com/justsurfingit/hireground/internal/database"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/events"
	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/models"
	"github.com/justsurfingit/hireground/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db         *gorm.DB
	events     *events.Recorder
	store      *storage.MemoryStore
	auth       *AuthService
	jobs       *JobService
	profiles   *ProfileService
	interviews *InterviewService
	reviews    *ReviewService
	dashboard  *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	rec := &events.Recorder{}
	store := storage.NewMemoryStore()
	log := quietLogger()
	ivs := NewInterviewService(db, rec, 72*time.Hour, log)
	f := &fixture{
		db:         db,
		events:     rec,
		store:      store,
		auth:       NewAuthService(db, time.Hour, log),
		jobs:       NewJobService(db, NewMatcherService(), rec, log),
		profiles:   NewProfileService(db, store, config.DefaultMaxResumeBytes, 2, log),
		interviews: ivs,
		reviews:    NewReviewService(ivs),
		dashboard:  NewDashboardService(db, ivs),
	}
	f.profiles.RetryDelay = time.Millisecond
	return f
}

func (f *fixture) register(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	req := dtos.RegisterRequest{
		Email:    email,
		Password: "password1",
		Role:     role,
		Profile:  dtos.ProfileInput{FirstName: "Test", LastName: "User", Company: "Acme"},
	}
	resp, err := f.auth.Register(context.Background(), req)
	require.NoError(t, err)
	user, err := f.auth.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	return user
}

// candidateWithResume registers a candidate and uploads a text resume.
func (f *fixture) candidateWithResume(t *testing.T, email string) *models.User {
	t.Helper()
	u := f.register(t, email, models.RoleCandidate)
	_, err := f.profiles.UploadResume(context.Background(), u.ID, "cv.txt", "text/plain", strings.NewReader("Go developer with Postgres"))
	require.NoError(t, err)
	reloaded, err := f.auth.Login(context.Background(), email, "password1")
	require.NoError(t, err)
	return reloaded.User
}

func (f *fixture) postJob(t *testing.T, recruiter *models.User, title string) *models.Job {
	t.Helper()
	job, err := f.jobs.CreateJob(context.Background(), &dtos.JobCreationRequest{
		CompanyName: "Acme",
		Title:       title,
		Description: "Build APIs in Go",
		Location:    "Berlin",
		TechStack:   []string{"Go", "Postgres"},
	}, recruiter.ID)
	require.NoError(t, err)
	return job
}

func sampleQuestions() interview.QuestionSet {
	return interview.QuestionSet{
		Intro:       &interview.Question{Text: "Introduce yourself"},
		Technical:   []interview.Question{{Text: "Explain channels"}, {Text: "Explain contexts"}},
		General:     []interview.Question{},
		Situational: []interview.Question{{Text: "A tough bug?"}},
		Conclusion:  &interview.Question{Text: "Questions for us?"},
	}
}
