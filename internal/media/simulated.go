// Package media provides capture backends for interview sessions. The
// terminal client has no camera, so Simulated stands in for one and keeps the
// same bookkeeping a browser recorder would.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/hireground/internal/interview"
)

// ErrAccessDenied is returned by Acquire when the user refuses camera or microphone access.
var ErrAccessDenied = interview.ErrMediaAccessDenied

var (
	ErrUnknownStream = errors.New("unknown media stream")
	ErrTrackMissing  = errors.New("track not present on stream")
	ErrNotRecording  = errors.New("recorder is not running")
)

// Capture is the capture surface consumed by the interview controller.
type Capture = interview.MediaCapture

// Status of a simulated recorder.
type Status int

const (
	StatusStandby Status = iota
	StatusRecording
	StatusPaused
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusStandby:
		return "standby"
	case StatusRecording:
		return "recording"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Segment is one uninterrupted stretch of recording.
type Segment struct {
	Start, End time.Time
}

func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

type stream struct {
	id     string
	tracks map[interview.TrackKind]bool
}

func (s *stream) ID() string { return s.id }

// Simulated is an in-process MediaCapture. Permission is decided up front
// through Allow; everything else behaves like a real device.
type Simulated struct {
	mu      sync.Mutex
	allowed bool
	streams map[string]*stream
	now     func() time.Time
	log     *slog.Logger
}

// SimOption configures a Simulated capture.
type SimOption func(*Simulated)

// WithClock replaces time.Now for segment bookkeeping.
func WithClock(now func() time.Time) SimOption {
	return func(s *Simulated) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SimOption {
	return func(s *Simulated) { s.log = l }
}

// NewSimulated returns a capture that grants access when allowed is true.
func NewSimulated(allowed bool, opts ...SimOption) *Simulated {
	s := &Simulated{
		allowed: allowed,
		streams: make(map[string]*stream),
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow changes the permission answer for future Acquire calls.
func (s *Simulated) Allow(allowed bool) {
	s.mu.Lock()
	s.allowed = allowed
	s.mu.Unlock()
}

func (s *Simulated) Acquire(ctx context.Context, c interview.Constraints) (interview.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.allowed {
		return nil, fmt.Errorf("%w: permission refused", ErrAccessDenied)
	}
	st := &stream{id: uuid.NewString(), tracks: make(map[interview.TrackKind]bool)}
	if c.Video {
		st.tracks[interview.TrackVideo] = true
	}
	if c.Audio {
		st.tracks[interview.TrackAudio] = true
	}
	s.streams[st.id] = st
	s.log.Debug("simulated stream acquired", "stream", st.id, "video", c.Video, "audio", c.Audio)
	return st, nil
}

func (s *Simulated) lookup(h interview.Stream) (*stream, error) {
	if h == nil {
		return nil, ErrUnknownStream
	}
	st, ok := s.streams[h.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStream, h.ID())
	}
	return st, nil
}

func (s *Simulated) ToggleTrack(h interview.Stream, kind interview.TrackKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.lookup(h)
	if err != nil {
		return false, err
	}
	enabled, ok := st.tracks[kind]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrTrackMissing, kind)
	}
	st.tracks[kind] = !enabled
	return !enabled, nil
}

// TrackEnabled reports the current state of a track.
func (s *Simulated) TrackEnabled(h interview.Stream, kind interview.TrackKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.lookup(h)
	if err != nil {
		return false
	}
	return st.tracks[kind]
}

func (s *Simulated) StartRecording(h interview.Stream) (interview.Recorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(h); err != nil {
		return nil, err
	}
	r := &Recorder{now: s.now}
	if err := r.start(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Simulated) Release(h interview.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(h); err != nil {
		return err
	}
	delete(s.streams, h.ID())
	s.log.Debug("simulated stream released", "stream", h.ID())
	return nil
}

// Recorder records onto a simulated stream as a list of segments.
type Recorder struct {
	mu       sync.Mutex
	now      func() time.Time
	status   Status
	open     time.Time
	segments []Segment
}

func (r *Recorder) start() error {
	if r.status != StatusStandby {
		return fmt.Errorf("recorder already %s", r.status)
	}
	r.status = StatusRecording
	r.open = r.now()
	return nil
}

func (r *Recorder) closeSegment() {
	r.segments = append(r.segments, Segment{Start: r.open, End: r.now()})
}

func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRecording {
		return fmt.Errorf("%w: %s", ErrNotRecording, r.status)
	}
	r.closeSegment()
	r.status = StatusPaused
	return nil
}

func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPaused {
		return fmt.Errorf("%w: %s", ErrNotRecording, r.status)
	}
	r.open = r.now()
	r.status = StatusRecording
	return nil
}

// Stop finalizes the recording. Stopping a stopped recorder is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.status {
	case StatusStopped:
		return nil
	case StatusRecording:
		r.closeSegment()
	}
	r.status = StatusStopped
	return nil
}

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Segments returns the closed segments recorded so far.
func (r *Recorder) Segments() []Segment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Segment(nil), r.segments...)
}

// Duration is the total recorded time excluding pauses.
func (r *Recorder) Duration() time.Duration {
	var d time.Duration
	for _, seg := range r.Segments() {
		d += seg.Duration()
	}
	return d
}

var _ interview.MediaCapture = (*Simulated)(nil)
