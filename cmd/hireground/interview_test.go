package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	failures  int
	submitted [][]string
}

func (f *fakeAPI) FetchInterview(context.Context, string) (interview.Definition, error) {
	return interview.Definition{}, interview.ErrNotFound
}

func (f *fakeAPI) Submit(_ context.Context, id string, responses []string) (interview.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return interview.Ack{}, errors.New("503 from server")
	}
	f.submitted = append(f.submitted, responses)
	return interview.Ack{InterviewID: id, Received: len(responses), SubmittedAt: time.Now()}, nil
}

func sessionDefinition() interview.Definition {
	return interview.Definition{
		ID:    "iv-1",
		Title: "Backend screen",
		Questions: interview.QuestionSet{
			Intro:       &interview.Question{Text: "Introduce yourself"},
			Technical:   []interview.Question{{Text: "What is a channel?"}},
			General:     []interview.Question{},
			Situational: []interview.Question{},
			Conclusion:  &interview.Question{Text: "Any questions?"},
		},
	}
}

func runScript(t *testing.T, api *fakeAPI, allowMedia bool, script ...string) (string, error) {
	t.Helper()
	ctrl, err := interview.New(sessionDefinition(), api,
		interview.WithMedia(media.NewSimulated(allowMedia)),
		interview.WithLogger(newLogger(rootCmd)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })

	var out bytes.Buffer
	p := &prompter{in: bufio.NewScanner(strings.NewReader(strings.Join(script, "\n") + "\n")), out: &out}
	err = runSession(context.Background(), ctrl, p)
	return out.String(), err
}

func TestRunSession_AnswersAndSubmits(t *testing.T) {
	api := &fakeAPI{}
	out, err := runScript(t, api, true,
		":start",
		"I am Ada",
		"",
		"A typed conduit",
		":prev",
		":retake",
		"A typed pipe",
		":progress",
		"No questions",
	)
	require.NoError(t, err)

	require.Len(t, api.submitted, 1)
	assert.Equal(t, []string{"I am Ada", "A typed pipe", "No questions"}, api.submitted[0])
	assert.Contains(t, out, "[Intro 1/1] Introduce yourself")
	assert.Contains(t, out, "[Technical 1/1] What is a channel?")
	assert.Contains(t, out, "Current answer: A typed conduit")
	assert.Contains(t, out, "Please type an answer first.")
	assert.Contains(t, out, "Answer cleared, 2 retakes left")
	assert.Contains(t, out, "Progress: 67%")
	assert.Contains(t, out, "Interview submitted: 3 responses received")
}

func TestRunSession_ResubmitAfterFailure(t *testing.T) {
	api := &fakeAPI{failures: 1}
	out, err := runScript(t, api, true, "one", "two", "three", ":resubmit")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not submit your responses")
	require.Len(t, api.submitted, 1)
	assert.Equal(t, []string{"one", "two", "three"}, api.submitted[0])
}

func TestRunSession_UnsubmittedAtEOF(t *testing.T) {
	api := &fakeAPI{failures: 5}
	_, err := runScript(t, api, true, "one", "two", "three")
	assert.ErrorIs(t, err, errUnsubmitted)
}

func TestRunSession_QuitWithUnsubmittedResponses(t *testing.T) {
	api := &fakeAPI{failures: 5}
	out, err := runScript(t, api, true, "one", "two", "three", ":quit")
	assert.ErrorIs(t, err, errUnsubmitted)
	assert.NotContains(t, out, "Left the interview.")
}

func TestRunSession_CommandsAreCaseInsensitive(t *testing.T) {
	out, err := runScript(t, &fakeAPI{}, true, "one", ":PREV", ":Retake", ":QUIT")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "[Intro 1/1] Introduce yourself"), "question redrawn after :PREV and :Retake")
	assert.Contains(t, out, "Answer cleared")
	assert.Contains(t, out, "Left the interview.")
}

func TestRunSession_NoMediaAndCommands(t *testing.T) {
	out, err := runScript(t, &fakeAPI{}, false, ":video", ":resubmit", ":bogus", ":quit")
	require.NoError(t, err)
	assert.Contains(t, out, "text only")
	assert.Contains(t, out, "no camera available")
	assert.Contains(t, out, "answer every question before submitting")
	assert.Contains(t, out, "unknown command :bogus")
	assert.Contains(t, out, "Left the interview.")
}

func TestRunSession_EOFAborts(t *testing.T) {
	_, err := runScript(t, &fakeAPI{}, true)
	assert.ErrorIs(t, err, errAborted)
}

func TestRunWizard(t *testing.T) {
	input := strings.Join([]string{
		"ada@example.com", "secret1", "secret2", "", // passwords differ
		"ada@example.com", "secret1", "secret1", "recruiter",
		"Ada", "Lovelace", "", "CTO", "London", // recruiter without company
		"Ada", "Lovelace", "Analytical Engines", "CTO", "London",
	}, "\n") + "\n"
	var out bytes.Buffer
	w, err := runWizard(&prompter{in: bufio.NewScanner(strings.NewReader(input)), out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Passwords do not match")
	assert.Contains(t, out.String(), "Company name is required for recruiters")

	req, err := w.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Analytical Engines", req.Profile.Company)
}

func TestClockAndOnOff(t *testing.T) {
	assert.Equal(t, "01:05", clock(65))
	assert.Equal(t, "on", onOff(true))
	assert.Equal(t, "off", onOff(false))
}

