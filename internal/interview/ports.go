package interview

import (
	"context"
	"time"
)

// RemoteAPI is the REST surface the session talks to.
type RemoteAPI interface {
	// FetchInterview fails with ErrNotFound or ErrExpired.
	FetchInterview(ctx context.Context, id string) (Definition, error)
	// Submit fails with ErrSubmissionFailed.
	Submit(ctx context.Context, id string, responses []string) (Ack, error)
}

// TrackKind selects a media track.
type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
)

// Constraints describes which tracks to acquire.
type Constraints struct {
	Video bool
	Audio bool
}

// Stream is an opaque handle to an acquired capture stream.
type Stream interface {
	ID() string
}

// Recorder controls one in-progress recording.
type Recorder interface {
	Pause() error
	Resume() error
	Stop() error
}

// MediaCapture owns the camera and microphone. The controller only ever holds
// the opaque Stream and Recorder handles it returns.
type MediaCapture interface {
	// Acquire fails with ErrMediaAccessDenied when permission is refused.
	Acquire(ctx context.Context, c Constraints) (Stream, error)
	ToggleTrack(s Stream, kind TrackKind) (bool, error)
	StartRecording(s Stream) (Recorder, error)
	Release(s Stream) error
}

// Ticker delivers the once-per-second recording tick.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}
