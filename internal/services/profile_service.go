package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/models"
	"github.com/justsurfingit/hireground/internal/resume"
	"github.com/justsurfingit/hireground/internal/storage"
	"gorm.io/gorm"
)

const resumeExcerptLength = 500

type ProfileService struct {
	DB             *gorm.DB
	Store          storage.ObjectStore
	MaxResumeBytes int64
	UploadAttempts int
	RetryDelay     time.Duration
	Log            *slog.Logger
}

func NewProfileService(db *gorm.DB, store storage.ObjectStore, maxResumeBytes int64, attempts int, log *slog.Logger) *ProfileService {
	return &ProfileService{
		DB:             db,
		Store:          store,
		MaxResumeBytes: maxResumeBytes,
		UploadAttempts: attempts,
		RetryDelay:     500 * time.Millisecond,
		Log:            log,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the editable profile fields. The stored resume is kept.
func (s *ProfileService) Update(ctx context.Context, userID uint, in dtos.ProfileInput) (*models.Profile, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, newError(ErrInvalidInput, "please provide your first and last name")
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := profileFromInput(in)
	updated.ID = p.ID
	updated.UserID = p.UserID
	updated.Resume = p.Resume
	if err := s.DB.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// UploadResume validates, stores and indexes a resume file for the user.
func (s *ProfileService) UploadResume(ctx context.Context, userID uint, filename, contentType string, r io.Reader) (*models.ResumeFile, error) {
	mime, err := resume.DetectMime(contentType, filename)
	if err != nil {
		return nil, newError(ErrInvalidInput, resume.ErrNotAllowed.Error())
	}
	data, err := io.ReadAll(io.LimitReader(r, s.MaxResumeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxResumeBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, newError(ErrInvalidInput, "uploaded file is empty")
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.ResumeKey(userID, filename)
	err = retry(ctx, s.UploadAttempts, s.RetryDelay, func() error {
		stored, e := s.Store.Put(ctx, key, mime, data)
		if e == nil {
			key = stored
		}
		return e
	})
	if err != nil {
		s.Log.Error("❌ Resume upload failed", "user_id", userID, "error", err)
		return nil, newError(ErrUnavailable, "could not store resume, please try again")
	}

	file := &models.ResumeFile{
		Key:         key,
		FileName:    filepath.Base(filename),
		ContentType: mime,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
	}
	text, err := resume.ExtractText(mime, data)
	switch {
	case err == nil:
		file.Excerpt = resume.Excerpt(text, resumeExcerptLength)
	case errors.Is(err, resume.ErrUnsupported):
		s.Log.Info("Resume stored without text extraction", "user_id", userID, "mime", mime)
	default:
		s.Log.Warn("⚠️ Text extraction failed", "user_id", userID, "key", key, "error", err)
	}

	profile.Resume = file
	if err := s.DB.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	s.Log.Info("📄 Resume uploaded", "user_id", userID, "key", key, "size", file.Size)
	return file, nil
}
