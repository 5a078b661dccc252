package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	submitErr error
	calls     [][]string
}

func (f *fakeAPI) FetchInterview(ctx context.Context, id string) (Definition, error) {
	return Definition{}, ErrNotFound
}

func (f *fakeAPI) Submit(ctx context.Context, id string, responses []string) (Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), responses...))
	if f.submitErr != nil {
		return Ack{}, f.submitErr
	}
	return Ack{InterviewID: id, Received: len(responses), SubmittedAt: time.Now()}, nil
}

func (f *fakeAPI) submitCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func q(text string) Question { return Question{Text: text} }

func qp(text string) *Question { return &Question{Text: text} }

func testDefinition(technical, general, situational []Question) Definition {
	return Definition{
		ID: "int-1",
		Questions: QuestionSet{
			Intro:       qp("Tell us about yourself"),
			Technical:   technical,
			General:     general,
			Situational: situational,
			Conclusion:  qp("Anything else?"),
		},
	}
}

func fullDefinition() Definition {
	return testDefinition(
		[]Question{q("T1"), q("T2")},
		[]Question{q("G1"), q("G2")},
		[]Question{q("S1")},
	)
}

func newController(t *testing.T, def Definition, api RemoteAPI, opts ...Option) *Controller {
	t.Helper()
	c, err := New(def, api, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func position(c *Controller) (Stage, int) {
	st := c.State()
	return st.Stage, st.Index
}

func TestNew_ValidatesDefinition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"missing id", func(d *Definition) { d.ID = " " }},
		{"missing intro", func(d *Definition) { d.Questions.Intro = nil }},
		{"blank conclusion", func(d *Definition) { d.Questions.Conclusion = qp("") }},
		{"missing technical", func(d *Definition) { d.Questions.Technical = nil }},
		{"missing general", func(d *Definition) { d.Questions.General = nil }},
		{"missing situational", func(d *Definition) { d.Questions.Situational = nil }},
		{"blank question text", func(d *Definition) { d.Questions.General = []Question{q("  ")} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := fullDefinition()
			tt.mutate(&def)
			_, err := New(def, &fakeAPI{})
			require.ErrorIs(t, err, ErrDefinitionInvalid)
		})
	}
}

func TestNew_InitialState(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	st := c.State()

	assert.Equal(t, StageIntro, st.Stage)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, 0, st.RetakeCount)
	assert.Len(t, st.Responses.Stage(StageTechnical), 2)
	assert.Len(t, st.Responses.Stage(StageGeneral), 2)
	assert.Len(t, st.Responses.Stage(StageSituational), 1)
	assert.Equal(t, []string{""}, st.Responses.Stage(StageIntro))
	assert.Equal(t, 0, c.Progress())

	question, ok := c.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "Tell us about yourself", question.Text)
}

func TestNew_EmptyGroupsAreValid(t *testing.T) {
	_, err := New(testDefinition([]Question{}, []Question{}, []Question{}), &fakeAPI{})
	require.NoError(t, err)
}

func TestAdvance_VisitsEveryQuestionInOrder(t *testing.T) {
	api := &fakeAPI{}
	c := newController(t, fullDefinition(), api)
	ctx := context.Background()

	var visited []string
	for {
		question, ok := c.CurrentQuestion()
		if !ok {
			break
		}
		visited = append(visited, question.Text)
		require.NoError(t, c.RecordResponse(ctx, "answer to "+question.Text))
	}

	assert.Equal(t, []string{"Tell us about yourself", "T1", "T2", "G1", "G2", "S1", "Anything else?"}, visited)
	assert.Equal(t, StageComplete, c.State().Stage)
}

func TestAdvance_SkipsEmptyStages(t *testing.T) {
	tests := []struct {
		name      string
		def       Definition
		afterIntro Stage
	}{
		{"technical empty", testDefinition([]Question{}, []Question{q("G1")}, []Question{q("S1")}), StageGeneral},
		{"technical and general empty", testDefinition([]Question{}, []Question{}, []Question{q("S1")}), StageSituational},
		{"all groups empty", testDefinition([]Question{}, []Question{}, []Question{}), StageConclusion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, tt.def, &fakeAPI{})
			require.NoError(t, c.RecordResponse(context.Background(), "hello"))
			stage, idx := position(c)
			assert.Equal(t, tt.afterIntro, stage)
			assert.Equal(t, 0, idx)
			_, ok := c.CurrentQuestion()
			assert.True(t, ok)
		})
	}
}

func TestScenario_GeneralSkipped(t *testing.T) {
	api := &fakeAPI{}
	def := testDefinition([]Question{q("Q1"), q("Q2")}, []Question{}, []Question{q("Q3")})
	c := newController(t, def, api)
	ctx := context.Background()

	require.NoError(t, c.RecordResponse(ctx, "intro"))
	stage, idx := position(c)
	assert.Equal(t, StageTechnical, stage)
	assert.Equal(t, 0, idx)

	require.NoError(t, c.RecordResponse(ctx, "q1"))
	stage, idx = position(c)
	assert.Equal(t, StageTechnical, stage)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 40, c.Progress())

	require.NoError(t, c.RecordResponse(ctx, "q2"))
	stage, idx = position(c)
	assert.Equal(t, StageSituational, stage)
	assert.Equal(t, 0, idx)

	require.NoError(t, c.RecordResponse(ctx, "q3"))
	stage, _ = position(c)
	assert.Equal(t, StageConclusion, stage)
	assert.Equal(t, 80, c.Progress())

	require.NoError(t, c.RecordResponse(ctx, "bye"))
	assert.Equal(t, StageComplete, c.State().Stage)
	require.Len(t, api.submitCalls(), 1)
	assert.Equal(t, []string{"intro", "q1", "q2", "q3", "bye"}, api.submitCalls()[0])
}

func TestRecordResponse_RejectsBlank(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	before := c.State()

	for _, text := range []string{"", "   ", "\n\t"} {
		err := c.RecordResponse(context.Background(), text)
		require.ErrorIs(t, err, ErrEmptyResponse)
	}
	assert.Equal(t, before, c.State())
}

func TestRecordResponse_ResetsRetakesAndElapsed(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{}, WithTicker(newIdleTicker))
	require.NoError(t, c.Retake())
	require.NoError(t, c.StartRecording())
	c.Tick()
	c.Tick()
	require.Equal(t, 2, c.State().Recording.ElapsedSeconds)

	require.NoError(t, c.RecordResponse(context.Background(), "hi"))
	st := c.State()
	assert.Equal(t, 0, st.RetakeCount)
	assert.Equal(t, 0, st.Recording.ElapsedSeconds)
	assert.Equal(t, "hi", st.Responses.Stage(StageIntro)[0])
}

func TestProgress_HundredWhenEverySlotFilled(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, c.RecordResponse(ctx, "answer"))
	}
	require.Equal(t, StageConclusion, c.State().Stage)
	// Six of seven answered.
	assert.Equal(t, 86, c.Progress())

	st := c.State()
	st.Responses[StageConclusion][0] = "last"
	assert.Equal(t, 100, progress(st.Responses, c.Definition().Questions.Total()))
}

func TestGoToPrevious_ReturnsToIntroInTotalMinusOneSteps(t *testing.T) {
	defs := map[string]Definition{
		"full":          fullDefinition(),
		"general empty": testDefinition([]Question{q("Q1"), q("Q2")}, []Question{}, []Question{q("Q3")}),
		"two empty":     testDefinition([]Question{q("Q1")}, []Question{}, []Question{}),
		"all empty":     testDefinition([]Question{}, []Question{}, []Question{}),
	}
	for name, def := range defs {
		t.Run(name, func(t *testing.T) {
			c := newController(t, def, &fakeAPI{})
			ctx := context.Background()
			for c.State().Stage != StageConclusion {
				require.NoError(t, c.RecordResponse(ctx, "x"))
			}

			steps := 0
			for c.State().Stage != StageIntro {
				require.NoError(t, c.GoToPrevious())
				steps++
				require.LessOrEqual(t, steps, def.Questions.Total())
			}
			assert.Equal(t, def.Questions.Total()-1, steps)
		})
	}
}

func TestGoToPrevious_FromConclusionSkipsEmptySituational(t *testing.T) {
	def := testDefinition([]Question{q("Q1"), q("Q2")}, []Question{}, []Question{})
	c := newController(t, def, &fakeAPI{})
	ctx := context.Background()
	for c.State().Stage != StageConclusion {
		require.NoError(t, c.RecordResponse(ctx, "x"))
	}

	require.NoError(t, c.GoToPrevious())
	stage, idx := position(c)
	assert.Equal(t, StageTechnical, stage)
	assert.Equal(t, 1, idx)
}

func TestGoToPrevious_IntroIsNoop(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	before := c.State()
	require.NoError(t, c.GoToPrevious())
	assert.Equal(t, before, c.State())
}

func TestGoToPrevious_KeepsResponsesAndResetsRetakes(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	require.NoError(t, c.RecordResponse(context.Background(), "intro answer"))
	require.NoError(t, c.Retake())

	require.NoError(t, c.GoToPrevious())
	st := c.State()
	assert.Equal(t, StageIntro, st.Stage)
	assert.Equal(t, 0, st.RetakeCount)
	assert.Equal(t, "intro answer", c.CurrentResponse())
}

func TestRetake_LimitAndSlotClearing(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	ctx := context.Background()
	require.NoError(t, c.RecordResponse(ctx, "intro"))
	require.NoError(t, c.RecordResponse(ctx, "t1"))
	require.NoError(t, c.GoToPrevious())
	require.Equal(t, "t1", c.CurrentResponse())

	for i := 1; i <= MaxRetakes; i++ {
		require.NoError(t, c.Retake())
		st := c.State()
		assert.Equal(t, i, st.RetakeCount)
		assert.Equal(t, StageTechnical, st.Stage)
		assert.Equal(t, 0, st.Index)
		assert.Equal(t, "", c.CurrentResponse())
	}
	assert.Equal(t, 0, c.RetakesLeft())

	before := c.State()
	err := c.Retake()
	require.ErrorIs(t, err, ErrRetakeLimitExceeded)
	assert.Equal(t, before, c.State())
}

func TestSubmission_FailureKeepsCompleteAndAllowsResubmit(t *testing.T) {
	api := &fakeAPI{submitErr: errors.New("502 bad gateway")}
	c := newController(t, testDefinition([]Question{q("T1")}, []Question{}, []Question{}), api)
	ctx := context.Background()

	require.NoError(t, c.RecordResponse(ctx, "intro"))
	require.NoError(t, c.RecordResponse(ctx, "   t1   "))
	err := c.RecordResponse(ctx, "conclusion")
	require.ErrorIs(t, err, ErrSubmissionFailed)

	assert.Equal(t, StageComplete, c.State().Stage)
	_, ok := c.Submitted()
	assert.False(t, ok)
	pending := c.PendingResponses()
	assert.Equal(t, []string{"intro", "   t1   ", "conclusion"}, pending)

	api.mu.Lock()
	api.submitErr = nil
	api.mu.Unlock()

	require.NoError(t, c.Resubmit(ctx))
	calls := api.submitCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
	ack, ok := c.Submitted()
	require.True(t, ok)
	assert.Equal(t, 3, ack.Received)

	// Already acknowledged: nothing is re-sent.
	require.NoError(t, c.Resubmit(ctx))
	assert.Len(t, api.submitCalls(), 2)
}

func TestSubmission_SendsRetakenAnswer(t *testing.T) {
	api := &fakeAPI{}
	c := newController(t, testDefinition([]Question{q("T1"), q("T2")}, []Question{}, []Question{}), api)
	ctx := context.Background()

	require.NoError(t, c.RecordResponse(ctx, "intro"))
	require.NoError(t, c.RecordResponse(ctx, "t1"))
	require.NoError(t, c.RecordResponse(ctx, "t2"))
	require.NoError(t, c.GoToPrevious())
	require.NoError(t, c.Retake())
	require.NoError(t, c.RecordResponse(ctx, "t2 again"))
	require.NoError(t, c.RecordResponse(ctx, "end"))

	require.Len(t, api.submitCalls(), 1)
	assert.Equal(t, []string{"intro", "t1", "t2 again", "end"}, api.submitCalls()[0])
}

func TestResubmit_BeforeCompletion(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	require.ErrorIs(t, c.Resubmit(context.Background()), ErrSessionNotComplete)
}

func TestComplete_IsTerminal(t *testing.T) {
	api := &fakeAPI{}
	c := newController(t, testDefinition([]Question{}, []Question{}, []Question{}), api)
	ctx := context.Background()
	require.NoError(t, c.RecordResponse(ctx, "intro"))
	require.NoError(t, c.RecordResponse(ctx, "end"))

	before := c.State()
	assert.ErrorIs(t, c.RecordResponse(ctx, "more"), ErrSessionComplete)
	assert.ErrorIs(t, c.GoToPrevious(), ErrSessionComplete)
	assert.ErrorIs(t, c.Retake(), ErrSessionComplete)
	assert.ErrorIs(t, c.StartRecording(), ErrSessionComplete)
	assert.ErrorIs(t, c.PauseRecording(), ErrSessionComplete)
	assert.ErrorIs(t, c.StopRecording(), ErrSessionComplete)
	assert.Equal(t, before, c.State())

	_, ok := c.CurrentQuestion()
	assert.False(t, ok)
	assert.Equal(t, 100, c.Progress())
}
