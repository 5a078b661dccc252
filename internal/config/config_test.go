package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("R2_BUCKET_NAME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, DefaultExchange, cfg.Broker.Exchange)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxResumeBytes)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.Storage.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://hireground.dev ,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://hireground.dev"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bucket without credentials", map[string]string{"R2_BUCKET_NAME": "resumes", "R2_ACCESS_KEY_ID": ""}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

const seedYAML = `
interviews:
  - id: backend-screen
    title: Backend screening
    ttl: 48h
    questions:
      intro: Tell us about yourself
      technical:
        - text: How does Go schedule goroutines?
          time_limit_seconds: 120
        - What is a data race?
      general: []
      situational:
        - Describe a production incident you handled
      conclusion:
        text: Any questions for us?
`

func TestParseInterviewSeeds(t *testing.T) {
	seeds, err := ParseInterviewSeeds([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 1)

	s := seeds[0]
	assert.Equal(t, "backend-screen", s.ID)
	assert.Equal(t, 48*time.Hour, s.TTL)
	assert.Equal(t, "Tell us about yourself", s.Questions.Intro.Text)
	assert.Equal(t, interview.Question{Text: "How does Go schedule goroutines?", TimeLimitSeconds: 120}, s.Questions.Technical[0])
	assert.Equal(t, "What is a data race?", s.Questions.Technical[1].Text)
	assert.NotNil(t, s.Questions.General)
	assert.Equal(t, 5, s.Questions.Total())
}

func TestParseInterviewSeeds_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing general": `
interviews:
  - id: a
    questions:
      intro: hi
      technical: []
      situational: []
      conclusion: bye
`,
		"duplicate id": `
interviews:
  - id: a
    questions: {intro: hi, technical: [], general: [], situational: [], conclusion: bye}
  - id: a
    questions: {intro: hi, technical: [], general: [], situational: [], conclusion: bye}
`,
		"not yaml": "interviews: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInterviewSeeds([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadInterviewSeeds_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interviews.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	seeds, err := LoadInterviewSeeds(path)
	require.NoError(t, err)
	assert.Len(t, seeds, 1)

	_, err = LoadInterviewSeeds(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
