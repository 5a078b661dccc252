package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/hireground/internal/config"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxExtractionInput = 20000

type LLMService struct {
	Client llms.Model
	Log    *slog.Logger
}

// NewLLMService initializes the Gemini client. It returns ErrLLMDisabled when no key is configured.
func NewLLMService(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (*LLMService, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrLLMDisabled
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLMService{Client: llm, Log: log}, nil
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company (e.g., Google, StartupInc)",
    "role_title": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "remote": true,
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "tech_stack": ["Array", "of", "technologies", "mentioned", "e.g., Go, React, AWS"],
    "salary_range": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails asks the model to turn a raw job page into a job posting draft.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML, url string) (*dtos.JobCreationRequest, error) {
	if s == nil || s.Client == nil {
		return nil, ErrLLMDisabled
	}
	if len(rawHTML) > maxExtractionInput {
		rawHTML = rawHTML[:maxExtractionInput]
	}
	prompt := fmt.Sprintf(jobExtractionPrompt, rawHTML)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("AI extraction failed: %w", err)
	}

	var draft dtos.JobCreationRequest
	if err := json.Unmarshal([]byte(cleanJSON(resp)), &draft); err != nil {
		s.Log.Warn("⚠️ Model returned invalid JSON", "error", err, "raw", truncate(resp, 200))
		return nil, newError(ErrUnavailable, "AI extraction returned an unreadable answer")
	}
	if draft.JobLink == "" {
		draft.JobLink = url
	}
	s.Log.Info("🤖 Job extracted", "company", draft.CompanyName, "title", draft.Title)
	return &draft, nil
}

// cleanJSON strips the markdown code fence models like to add.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
