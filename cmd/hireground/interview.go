package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/media"
	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview <interview-id>",
	Short: "Take an interview",
	Long: `Take an interview question by question. Type an answer and press enter to
record it and move on. Lines starting with ':' are commands; type :help to list them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := requireLogin(c); err != nil {
			return err
		}
		def, err := c.FetchInterview(cmd.Context(), args[0])
		switch {
		case errors.Is(err, interview.ErrNotFound):
			return fmt.Errorf("interview %s not found, check your link", args[0])
		case errors.Is(err, interview.ErrExpired):
			return fmt.Errorf("interview %s has expired, ask the recruiter for a new link", args[0])
		case err != nil:
			return err
		}

		log := newLogger(cmd)
		noCamera, _ := cmd.Flags().GetBool("no-camera")
		capture := media.NewSimulated(!noCamera, media.WithLogger(log))
		ctrl, err := interview.New(def, c, interview.WithMedia(capture), interview.WithLogger(log))
		if err != nil {
			return err
		}
		defer ctrl.Close()
		return runSession(cmd.Context(), ctrl, newPrompter(cmd))
	},
}

func init() {
	interviewCmd.Flags().Bool("no-camera", false, "Simulate a denied camera and microphone")
}

const sessionHelp = `Commands:
  :start     start recording this answer
  :pause     pause or resume the recording
  :stop      stop recording
  :retake    clear this answer and record it again
  :prev      go back to the previous question
  :video     turn the camera on or off
  :audio     turn the microphone on or off
  :progress  show how far along you are
  :resubmit  retry a failed submission
  :quit      leave the interview`

type position struct {
	stage interview.Stage
	index int
}

// runSession drives ctrl from line input until the responses are submitted
// or the candidate quits.
func runSession(ctx context.Context, ctrl *interview.Controller, p *prompter) error {
	def := ctrl.Definition()
	perStage := map[interview.Stage]int{}
	for _, e := range def.Questions.Flatten() {
		perStage[e.Stage]++
	}

	title := def.Title
	if title == "" {
		title = "Interview " + def.ID
	}
	fmt.Fprintf(p.out, "%s: %d questions\n", title, def.Questions.Total())
	if err := ctrl.AcquireMedia(ctx); err != nil {
		fmt.Fprintln(p.out, "Camera and microphone unavailable, answers are recorded as text only.")
	}
	fmt.Fprintln(p.out, "Type :help for commands.")

	shown := position{stage: -1}
	for {
		if ack, ok := ctrl.Submitted(); ok {
			fmt.Fprintf(p.out, "Interview submitted: %d responses received at %s. Thank you!\n",
				ack.Received, ack.SubmittedAt.Local().Format("15:04"))
			return nil
		}

		label := "> "
		if q, ok := ctrl.CurrentQuestion(); ok {
			st := ctrl.State()
			if cur := (position{st.Stage, st.Index}); cur != shown {
				fmt.Fprintf(p.out, "\n[%s %d/%d] %s\n", st.Stage.Title(), st.Index+1, perStage[st.Stage], q.Text)
				if prev := ctrl.CurrentResponse(); prev != "" {
					fmt.Fprintf(p.out, "Current answer: %s\n", prev)
				}
				shown = cur
			}
		} else {
			label = "Submission pending. :resubmit or :quit > "
		}

		line, ok := p.ask(label)
		if !ok {
			if unsubmitted(ctrl) {
				return errUnsubmitted
			}
			return errAborted
		}

		if !strings.HasPrefix(line, ":") {
			err := ctrl.RecordResponse(ctx, line)
			switch {
			case errors.Is(err, interview.ErrEmptyResponse):
				fmt.Fprintln(p.out, "Please type an answer first.")
			case errors.Is(err, interview.ErrSubmissionFailed):
				fmt.Fprintf(p.out, "Could not submit your responses: %v\nType :resubmit to try again.\n", err)
			case err != nil:
				fmt.Fprintln(p.out, err)
			}
			continue
		}

		cmd := strings.ToLower(line)
		quit, err := runCommand(ctx, ctrl, p, cmd)
		if err != nil {
			fmt.Fprintln(p.out, err)
		}
		if quit {
			if unsubmitted(ctrl) {
				return errUnsubmitted
			}
			fmt.Fprintln(p.out, "Left the interview.")
			return nil
		}
		if cmd == ":retake" || cmd == ":prev" {
			shown = position{stage: -1}
		}
	}
}

// unsubmitted reports whether every question was answered but the submission never succeeded.
func unsubmitted(ctrl *interview.Controller) bool {
	_, done := ctrl.Submitted()
	return !done && ctrl.PendingResponses() != nil
}

func runCommand(ctx context.Context, ctrl *interview.Controller, p *prompter, line string) (quit bool, err error) {
	switch line {
	case ":help":
		fmt.Fprintln(p.out, sessionHelp)
	case ":quit":
		return true, nil
	case ":start":
		if err := ctrl.StartRecording(); err != nil {
			return false, err
		}
		fmt.Fprintln(p.out, "● Recording")
	case ":pause":
		if err := ctrl.PauseRecording(); err != nil {
			return false, err
		}
		rec := ctrl.State().Recording
		switch {
		case !rec.Active:
			fmt.Fprintln(p.out, "Not recording")
		case rec.Paused:
			fmt.Fprintf(p.out, "Paused at %s\n", clock(rec.ElapsedSeconds))
		default:
			fmt.Fprintln(p.out, "● Recording resumed")
		}
	case ":stop":
		elapsed := ctrl.State().Recording.ElapsedSeconds
		if err := ctrl.StopRecording(); err != nil {
			return false, err
		}
		fmt.Fprintf(p.out, "Recording stopped at %s\n", clock(elapsed))
	case ":retake":
		if err := ctrl.Retake(); err != nil {
			if errors.Is(err, interview.ErrRetakeLimitExceeded) {
				return false, errors.New("no retakes left for this question")
			}
			return false, err
		}
		fmt.Fprintf(p.out, "Answer cleared, %d retakes left\n", ctrl.RetakesLeft())
	case ":prev":
		return false, ctrl.GoToPrevious()
	case ":video":
		on, err := ctrl.ToggleVideo()
		if err != nil {
			return false, errors.New("no camera available")
		}
		fmt.Fprintf(p.out, "Camera %s\n", onOff(on))
	case ":audio":
		on, err := ctrl.ToggleAudio()
		if err != nil {
			return false, errors.New("no microphone available")
		}
		fmt.Fprintf(p.out, "Microphone %s\n", onOff(on))
	case ":progress":
		st := ctrl.State()
		fmt.Fprintf(p.out, "Progress: %d%% (%d answered), retakes left %d, camera %s, microphone %s\n",
			ctrl.Progress(), st.Responses.Answered(), ctrl.RetakesLeft(), onOff(st.VideoEnabled), onOff(st.AudioEnabled))
	case ":resubmit":
		err := ctrl.Resubmit(ctx)
		if errors.Is(err, interview.ErrSessionNotComplete) {
			return false, errors.New("answer every question before submitting")
		}
		return false, err
	default:
		return false, fmt.Errorf("unknown command %s, type :help", line)
	}
	return false, nil
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
