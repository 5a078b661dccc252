package interview

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AcquireMedia requests camera and microphone from the capture service.
// When access is denied the session keeps running with video disabled and
// recording tracked logically; the ErrMediaAccessDenied error is still returned
// so the caller can tell the candidate. A session holds at most one stream:
// calling it again while a stream is held does nothing, and calling it after
// Close returns ErrSessionClosed.
func (c *Controller) AcquireMedia(ctx context.Context) error {
	if c.media == nil {
		return fmt.Errorf("%w: no capture device configured", ErrMediaAccessDenied)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.stream != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	stream, err := c.media.Acquire(ctx, Constraints{Video: true, Audio: true})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.MediaAvailable = false
		c.state.VideoEnabled = false
		c.state.AudioEnabled = false
		if errors.Is(err, ErrMediaAccessDenied) {
			c.log.Warn("media access denied, continuing without video", "interview_id", c.def.ID)
			return err
		}
		return fmt.Errorf("%w: %w", ErrMediaAccessDenied, err)
	}
	// Close or a concurrent call may have won while the capture service was answering.
	if c.closed || c.stream != nil {
		if rerr := c.media.Release(stream); rerr != nil {
			c.log.Warn("release surplus stream", "interview_id", c.def.ID, "error", rerr)
		}
		if c.closed {
			return ErrSessionClosed
		}
		return nil
	}
	c.stream = stream
	c.state.MediaAvailable = true
	c.state.VideoEnabled = true
	c.state.AudioEnabled = true
	c.log.Info("media acquired", "interview_id", c.def.ID, "stream", stream.ID())
	return nil
}

// ToggleVideo flips the video track and returns whether it is now enabled.
func (c *Controller) ToggleVideo() (bool, error) {
	return c.toggle(TrackVideo)
}

// ToggleAudio flips the audio track and returns whether it is now enabled.
func (c *Controller) ToggleAudio() (bool, error) {
	return c.toggle(TrackAudio)
}

func (c *Controller) toggle(kind TrackKind) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil || c.media == nil {
		return false, fmt.Errorf("%w: no media stream", ErrMediaAccessDenied)
	}
	enabled, err := c.media.ToggleTrack(c.stream, kind)
	if err != nil {
		return false, fmt.Errorf("toggle %s track: %w", kind, err)
	}
	switch kind {
	case TrackVideo:
		c.state.VideoEnabled = enabled
	case TrackAudio:
		c.state.AudioEnabled = enabled
	}
	return enabled, nil
}

// StartRecording begins recording the current answer and starts the elapsed-time ticker.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ErrSessionComplete
	}
	if c.state.Recording.Active {
		return ErrAlreadyRecording
	}
	if c.stream != nil {
		rec, err := c.media.StartRecording(c.stream)
		if err != nil {
			return fmt.Errorf("start recorder: %w", err)
		}
		c.recorder = rec
	}
	c.state.Recording = Recording{Active: true}
	c.startTickerLocked()
	return nil
}

// PauseRecording toggles pause. It does nothing unless a recording is active.
func (c *Controller) PauseRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ErrSessionComplete
	}
	if !c.state.Recording.Active {
		return nil
	}
	if c.state.Recording.Paused {
		if c.recorder != nil {
			if err := c.recorder.Resume(); err != nil {
				return fmt.Errorf("resume recorder: %w", err)
			}
		}
		c.state.Recording.Paused = false
		c.startTickerLocked()
		return nil
	}
	if c.recorder != nil {
		if err := c.recorder.Pause(); err != nil {
			return fmt.Errorf("pause recorder: %w", err)
		}
	}
	c.state.Recording.Paused = true
	c.stopTickerLocked()
	return nil
}

// StopRecording ends the current recording. Stopping twice is harmless.
func (c *Controller) StopRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Stage == StageComplete {
		return ErrSessionComplete
	}
	c.stopRecordingLocked()
	return nil
}

func (c *Controller) stopRecordingLocked() {
	c.stopTickerLocked()
	if c.recorder != nil {
		if err := c.recorder.Stop(); err != nil {
			c.log.Warn("stop recorder", "interview_id", c.def.ID, "error", err)
		}
		c.recorder = nil
	}
	c.state.Recording.Active = false
	c.state.Recording.Paused = false
}

// Tick adds one second of elapsed time if a recording is running.
// The background ticker calls it once per second; tests and alternative
// event loops may call it directly.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickLocked()
}

func (c *Controller) tickLocked() {
	if c.state.Recording.Active && !c.state.Recording.Paused {
		c.state.Recording.ElapsedSeconds++
	}
}

func (c *Controller) startTickerLocked() {
	if c.closed || c.tickStop != nil {
		return
	}
	c.tickGen++
	stop := make(chan struct{})
	done := make(chan struct{})
	c.tickStop, c.tickDone = stop, done
	go c.runTicker(c.newTicker(time.Second), c.tickGen, stop, done)
}

func (c *Controller) stopTickerLocked() {
	if c.tickStop == nil {
		return
	}
	close(c.tickStop)
	c.tickStop = nil
}

func (c *Controller) runTicker(t Ticker, gen uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.mu.Lock()
			// A tick from a cancelled ticker must not count toward a newer recording.
			if gen == c.tickGen && c.tickStop != nil {
				c.tickLocked()
			}
			c.mu.Unlock()
		}
	}
}
