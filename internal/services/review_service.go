package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/hireground/internal/dtos"
)

// ReviewService produces the recruiter-facing review of a submitted interview.
// Scores are placeholders derived from answer length; there is no model behind them.
type ReviewService struct {
	Interviews *InterviewService
}

func NewReviewService(interviews *InterviewService) *ReviewService {
	return &ReviewService{Interviews: interviews}
}

func (s *ReviewService) Review(ctx context.Context, interviewID string) (*dtos.ReviewResponse, error) {
	iv, sub, err := s.Interviews.Submission(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	// Responses are stored by question position; blanks are unanswered.
	entries := iv.Questions.Flatten()
	scores := make([]dtos.QuestionScore, 0, len(sub.Responses))
	total := 0
	for i, response := range sub.Responses {
		if response == "" {
			continue
		}
		qs := dtos.QuestionScore{Response: response, Score: placeholderScore(response)}
		if i < len(entries) {
			qs.Stage = entries[i].Stage
			qs.Question = entries[i].Question.Text
		}
		scores = append(scores, qs)
		total += qs.Score
	}

	overall := 0
	if len(scores) > 0 {
		overall = total / len(scores)
	}
	// Unanswered questions count against the overall score.
	if n := len(entries); n > 0 && len(scores) < n {
		overall = overall * len(scores) / n
	}

	return &dtos.ReviewResponse{
		InterviewID:    iv.ID,
		SubmittedAt:    sub.SubmittedAt,
		Scores:         scores,
		Overall:        overall,
		Recommendation: recommendation(overall),
	}, nil
}

func placeholderScore(response string) int {
	score := 40 + 2*len(strings.Fields(response))
	if score > 95 {
		score = 95
	}
	return score
}

func recommendation(overall int) string {
	switch {
	case overall >= 80:
		return "strong_yes"
	case overall >= 65:
		return "yes"
	case overall >= 50:
		return "maybe"
	}
	return "no"
}
