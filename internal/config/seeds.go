package config

import (
	"fmt"
	"os"
	"time"

	"github.com/justsurfingit/hireground/internal/interview"
	"gopkg.in/yaml.v3"
)

// InterviewSeed is one interview definition loaded from the seed file.
type InterviewSeed struct {
	interview.Definition `yaml:",inline"`
	// TTL sets the expiry from seeding time. Zero means the interview never expires.
	TTL time.Duration `yaml:"ttl"`
}

type seedFile struct {
	Interviews []InterviewSeed `yaml:"interviews"`
}

// LoadInterviewSeeds reads interview definitions from a YAML file and validates each one.
func LoadInterviewSeeds(filename string) ([]InterviewSeed, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", filename, err)
	}
	return ParseInterviewSeeds(data)
}

// ParseInterviewSeeds decodes and validates seed definitions.
func ParseInterviewSeeds(data []byte) ([]InterviewSeed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed YAML: %w", err)
	}
	seen := make(map[string]bool, len(f.Interviews))
	for i, seed := range f.Interviews {
		if err := seed.Validate(); err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		if seen[seed.ID] {
			return nil, fmt.Errorf("seed %d: duplicate interview id %q", i, seed.ID)
		}
		if seed.TTL < 0 {
			return nil, fmt.Errorf("seed %q: ttl must not be negative", seed.ID)
		}
		seen[seed.ID] = true
	}
	return f.Interviews, nil
}
