package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker fires only when the test sends on ch.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.once.Do(func() { close(m.stopped) }) }

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *tickerFactory) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) latest(t *testing.T) *manualTicker {
	t.Helper()
	var tk *manualTicker
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if len(f.tickers) == 0 {
			return false
		}
		tk = f.tickers[len(f.tickers)-1]
		return true
	}, time.Second, 5*time.Millisecond)
	return tk
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

// newIdleTicker never fires.
func newIdleTicker(time.Duration) Ticker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

type fakeStream string

func (s fakeStream) ID() string { return string(s) }

type fakeRecorder struct {
	mu                     sync.Mutex
	paused, resumed, stops int
}

func (r *fakeRecorder) Pause() error  { r.mu.Lock(); r.paused++; r.mu.Unlock(); return nil }
func (r *fakeRecorder) Resume() error { r.mu.Lock(); r.resumed++; r.mu.Unlock(); return nil }
func (r *fakeRecorder) Stop() error   { r.mu.Lock(); r.stops++; r.mu.Unlock(); return nil }

type fakeMedia struct {
	acquired   int
	acquireErr error
	tracks     map[TrackKind]bool
	recorders  []*fakeRecorder
	released   []Stream
}

func (m *fakeMedia) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.tracks = map[TrackKind]bool{TrackVideo: c.Video, TrackAudio: c.Audio}
	id := fakeStream(fmt.Sprintf("cam-%d", m.acquired))
	m.acquired++
	return id, nil
}

func (m *fakeMedia) ToggleTrack(s Stream, kind TrackKind) (bool, error) {
	m.tracks[kind] = !m.tracks[kind]
	return m.tracks[kind], nil
}

func (m *fakeMedia) StartRecording(s Stream) (Recorder, error) {
	r := &fakeRecorder{}
	m.recorders = append(m.recorders, r)
	return r, nil
}

func (m *fakeMedia) Release(s Stream) error {
	m.released = append(m.released, s)
	return nil
}

func elapsed(c *Controller) int { return c.State().Recording.ElapsedSeconds }

func TestAcquireMedia_Success(t *testing.T) {
	media := &fakeMedia{}
	c := newController(t, fullDefinition(), &fakeAPI{}, WithMedia(media), WithTicker(newIdleTicker))

	require.NoError(t, c.AcquireMedia(context.Background()))
	st := c.State()
	assert.True(t, st.MediaAvailable)
	assert.True(t, st.VideoEnabled)
	assert.True(t, st.AudioEnabled)

	on, err := c.ToggleVideo()
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, c.State().VideoEnabled)

	on, err = c.ToggleAudio()
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, c.Close())
	assert.Equal(t, []Stream{fakeStream("cam-0")}, media.released)
}

func TestAcquireMedia_HoldsOneStream(t *testing.T) {
	media := &fakeMedia{}
	c := newController(t, fullDefinition(), &fakeAPI{}, WithMedia(media), WithTicker(newIdleTicker))

	require.NoError(t, c.AcquireMedia(context.Background()))
	require.NoError(t, c.AcquireMedia(context.Background()))
	assert.Equal(t, 1, media.acquired)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.AcquireMedia(context.Background()), ErrSessionClosed)
	assert.Equal(t, 1, media.acquired)
	assert.Equal(t, []Stream{fakeStream("cam-0")}, media.released)
}

func TestAcquireMedia_DeniedDegradesGracefully(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"denied", fmt.Errorf("%w: user refused", ErrMediaAccessDenied)},
		{"device error", errors.New("no camera found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, fullDefinition(), &fakeAPI{},
				WithMedia(&fakeMedia{acquireErr: tt.err}), WithTicker(newIdleTicker))

			err := c.AcquireMedia(context.Background())
			require.ErrorIs(t, err, ErrMediaAccessDenied)
			st := c.State()
			assert.False(t, st.MediaAvailable)
			assert.False(t, st.VideoEnabled)

			// Recording is still tracked logically.
			require.NoError(t, c.StartRecording())
			c.Tick()
			assert.Equal(t, 1, elapsed(c))
			assert.True(t, c.State().Recording.Active)

			_, err = c.ToggleVideo()
			assert.ErrorIs(t, err, ErrMediaAccessDenied)
		})
	}
}

func TestAcquireMedia_NoCaptureConfigured(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	require.ErrorIs(t, c.AcquireMedia(context.Background()), ErrMediaAccessDenied)
}

func TestRecording_StartPauseStopWithRecorder(t *testing.T) {
	media := &fakeMedia{}
	c := newController(t, fullDefinition(), &fakeAPI{}, WithMedia(media), WithTicker(newIdleTicker))
	require.NoError(t, c.AcquireMedia(context.Background()))

	require.NoError(t, c.StartRecording())
	require.ErrorIs(t, c.StartRecording(), ErrAlreadyRecording)
	require.Len(t, media.recorders, 1)
	rec := media.recorders[0]

	require.NoError(t, c.PauseRecording())
	assert.True(t, c.State().Recording.Paused)
	require.NoError(t, c.PauseRecording())
	assert.False(t, c.State().Recording.Paused)

	require.NoError(t, c.StopRecording())
	require.NoError(t, c.StopRecording())
	assert.False(t, c.State().Recording.Active)
	assert.Equal(t, 1, rec.paused)
	assert.Equal(t, 1, rec.resumed)
	assert.Equal(t, 1, rec.stops)
}

func TestPauseRecording_InactiveIsNoop(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{})
	before := c.State()
	require.NoError(t, c.PauseRecording())
	assert.Equal(t, before, c.State())
}

func TestTick_OnlyCountsWhileRunning(t *testing.T) {
	c := newController(t, fullDefinition(), &fakeAPI{}, WithTicker(newIdleTicker))

	c.Tick()
	assert.Equal(t, 0, elapsed(c))

	require.NoError(t, c.StartRecording())
	c.Tick()
	c.Tick()
	assert.Equal(t, 2, elapsed(c))

	require.NoError(t, c.PauseRecording())
	c.Tick()
	assert.Equal(t, 2, elapsed(c))

	require.NoError(t, c.PauseRecording())
	c.Tick()
	assert.Equal(t, 3, elapsed(c))

	require.NoError(t, c.StopRecording())
	c.Tick()
	assert.Equal(t, 3, elapsed(c))

	// A fresh recording starts counting from zero.
	require.NoError(t, c.StartRecording())
	assert.Equal(t, 0, elapsed(c))
}

func TestTicker_DrivesElapsedTime(t *testing.T) {
	factory := &tickerFactory{}
	c := newController(t, fullDefinition(), &fakeAPI{}, WithTicker(factory.New))

	require.NoError(t, c.StartRecording())
	tk := factory.latest(t)
	tk.ch <- time.Now()
	tk.ch <- time.Now()
	require.Eventually(t, func() bool { return elapsed(c) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.PauseRecording())
	select {
	case <-tk.stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker was not stopped on pause")
	}

	require.NoError(t, c.PauseRecording())
	require.Equal(t, 2, factory.count())
	tk2 := factory.latest(t)
	tk2.ch <- time.Now()
	require.Eventually(t, func() bool { return elapsed(c) == 3 }, time.Second, 5*time.Millisecond)
}

func TestTicker_StoppedWhenSessionCompletes(t *testing.T) {
	factory := &tickerFactory{}
	c := newController(t, testDefinition([]Question{}, []Question{}, []Question{}), &fakeAPI{}, WithTicker(factory.New))
	ctx := context.Background()

	require.NoError(t, c.StartRecording())
	tk := factory.latest(t)
	require.NoError(t, c.RecordResponse(ctx, "intro"))
	require.NoError(t, c.RecordResponse(ctx, "end"))

	select {
	case <-tk.stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker still running after completion")
	}
	assert.False(t, c.State().Recording.Active)
}

func TestClose_StopsTickerAndIsIdempotent(t *testing.T) {
	factory := &tickerFactory{}
	c, err := New(fullDefinition(), &fakeAPI{}, WithTicker(factory.New))
	require.NoError(t, err)

	require.NoError(t, c.StartRecording())
	tk := factory.latest(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	select {
	case <-tk.stopped:
	default:
		t.Fatal("ticker not stopped after Close")
	}
}

func TestRetake_StopsRecording(t *testing.T) {
	media := &fakeMedia{}
	c := newController(t, fullDefinition(), &fakeAPI{}, WithMedia(media), WithTicker(newIdleTicker))
	require.NoError(t, c.AcquireMedia(context.Background()))
	require.NoError(t, c.StartRecording())
	c.Tick()

	require.NoError(t, c.Retake())
	st := c.State()
	assert.False(t, st.Recording.Active)
	assert.Equal(t, 0, st.Recording.ElapsedSeconds)
	assert.Equal(t, 1, media.recorders[0].stops)
}
