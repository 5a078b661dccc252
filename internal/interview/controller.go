package interview

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
)

// Controller drives one interview session through its fixed stage sequence.
// All exported methods are safe to call from the UI goroutine while the
// recording ticker runs in the background.
type Controller struct {
	mu sync.Mutex

	def       Definition
	questions [NumStages][]Question
	state     SessionState

	api   RemoteAPI
	media MediaCapture
	log   *slog.Logger

	stream   Stream
	recorder Recorder

	newTicker func(time.Duration) Ticker
	tickStop  chan struct{}
	tickDone  chan struct{}
	tickGen   uint64

	pending    []string
	submitting bool
	ack        *Ack
	closed     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMedia attaches a capture service. Without one the session records text only.
func WithMedia(m MediaCapture) Option {
	return func(c *Controller) { c.media = m }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithTicker replaces the wall-clock ticker used for elapsed time.
func WithTicker(f func(time.Duration) Ticker) Option {
	return func(c *Controller) { c.newTicker = f }
}

// New initializes a session for def: intro stage, first index, all slots empty.
func New(def Definition, api RemoteAPI, opts ...Option) (*Controller, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		def:       def,
		questions: def.Questions.byStage(),
		api:       api,
		log:       slog.Default(),
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	for s, qs := range c.questions {
		c.state.Responses[s] = make([]string, len(qs))
	}
	c.state.Stage = StageIntro
	c.log.Info("interview session initialized",
		"interview_id", def.ID,
		"questions", def.Questions.Total())
	return c, nil
}

// Definition returns the interview being run.
func (c *Controller) Definition() Definition {
	return c.def
}

// State returns a deep copy of the session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Responses = c.state.Responses.clone()
	return st
}

// CurrentQuestion returns the active question, or false once the session is complete.
func (c *Controller) CurrentQuestion() (Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentQuestionLocked()
}

func (c *Controller) currentQuestionLocked() (Question, bool) {
	if c.state.Stage == StageComplete {
		return Question{}, false
	}
	return c.questions[c.state.Stage][c.state.Index], true
}

// CurrentResponse returns what is stored in the active slot.
func (c *Controller) CurrentResponse() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ""
	}
	return c.state.Responses[c.state.Stage][c.state.Index]
}

// Progress is the share of answered questions, rounded to a whole percent.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress(c.state.Responses, c.def.Questions.Total())
}

func progress(r Responses, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.Answered()) / float64(total)))
}

// RecordResponse stores text for the current question and advances.
// Answering the conclusion completes the session and submits the responses.
func (c *Controller) RecordResponse(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state.Stage == StageComplete {
		c.mu.Unlock()
		return ErrSessionComplete
	}
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return ErrEmptyResponse
	}

	c.state.Responses[c.state.Stage][c.state.Index] = text
	c.state.Recording.ElapsedSeconds = 0
	c.state.RetakeCount = 0
	c.state.Stage, c.state.Index = c.next(c.state.Stage, c.state.Index)

	if c.state.Stage != StageComplete {
		c.mu.Unlock()
		return nil
	}

	c.stopRecordingLocked()
	c.pending = c.state.Responses.Ordered()
	c.log.Info("interview session complete",
		"interview_id", c.def.ID,
		"responses", len(c.pending))
	return c.submitAndUnlock(ctx)
}

// GoToPrevious moves back one question. It is a no-op on the intro question
// and keeps any answers already recorded.
func (c *Controller) GoToPrevious() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ErrSessionComplete
	}
	stage, idx, ok := c.prev(c.state.Stage, c.state.Index)
	if !ok {
		return nil
	}
	c.state.Stage, c.state.Index = stage, idx
	c.state.RetakeCount = 0
	return nil
}

// Retake clears the current answer so it can be re-recorded.
func (c *Controller) Retake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ErrSessionComplete
	}
	if c.state.RetakeCount >= MaxRetakes {
		return fmt.Errorf("%w: %d of %d used", ErrRetakeLimitExceeded, c.state.RetakeCount, MaxRetakes)
	}
	c.state.Responses[c.state.Stage][c.state.Index] = ""
	c.state.Recording.ElapsedSeconds = 0
	c.stopRecordingLocked()
	c.state.RetakeCount++
	return nil
}

// RetakesLeft reports how many retakes remain for the current question.
func (c *Controller) RetakesLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MaxRetakes - c.state.RetakeCount
}

// next applies the advance rule, skipping stages without questions.
func (c *Controller) next(stage Stage, idx int) (Stage, int) {
	if idx+1 < len(c.questions[stage]) {
		return stage, idx + 1
	}
	for s := stage + 1; s < StageComplete; s++ {
		if len(c.questions[s]) > 0 {
			return s, 0
		}
	}
	return StageComplete, 0
}

// prev is the inverse of next. It reports false when there is no earlier question.
func (c *Controller) prev(stage Stage, idx int) (Stage, int, bool) {
	if idx > 0 {
		return stage, idx - 1, true
	}
	for s := stage - 1; s >= StageIntro; s-- {
		if n := len(c.questions[s]); n > 0 {
			return s, n - 1, true
		}
	}
	return stage, idx, false
}

// Close cancels the recording ticker and releases media. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopRecordingLocked()
	done := c.tickDone
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	if stream != nil && c.media != nil {
		if err := c.media.Release(stream); err != nil {
			return fmt.Errorf("release media stream: %w", err)
		}
	}
	return nil
}
