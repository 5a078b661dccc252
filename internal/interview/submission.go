package interview

import (
	"context"
	"fmt"
)

// submitAndUnlock sends the pending responses. It must be called with c.mu
// held and releases it before talking to the remote API.
func (c *Controller) submitAndUnlock(ctx context.Context) error {
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.submitting = true
	id := c.def.ID
	responses := append([]string(nil), c.pending...)
	c.mu.Unlock()

	ack, err := c.api.Submit(ctx, id, responses)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Error("interview submission failed", "interview_id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	c.ack = &ack
	c.log.Info("interview submitted", "interview_id", id, "received", ack.Received)
	return nil
}

// Resubmit re-sends the response list assembled when the session completed.
// It returns nil without sending when the earlier submission was acknowledged.
func (c *Controller) Resubmit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Stage != StageComplete {
		c.mu.Unlock()
		return ErrSessionNotComplete
	}
	if c.ack != nil {
		c.mu.Unlock()
		return nil
	}
	return c.submitAndUnlock(ctx)
}

// PendingResponses is the ordered, blank-free list handed to the remote API.
// It is nil until the session completes.
func (c *Controller) PendingResponses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	return append([]string(nil), c.pending...)
}

// Submitted returns the acknowledgement of a successful submission.
func (c *Controller) Submitted() (Ack, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ack == nil {
		return Ack{}, false
	}
	return *c.ack, true
}
