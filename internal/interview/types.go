package interview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxRetakes is the number of times a single question may be re-attempted.
const MaxRetakes = 3

// Stage is one phase of the interview. Stages are ordered; StageComplete is terminal.
type Stage int

const (
	StageIntro Stage = iota
	StageTechnical
	StageGeneral
	StageSituational
	StageConclusion
	StageComplete
)

// NumStages is the number of answerable stages (everything before StageComplete).
const NumStages = int(StageComplete)

var stageNames = [...]string{"intro", "technical", "general", "situational", "conclusion", "complete"}

func (s Stage) String() string {
	if s < StageIntro || s > StageComplete {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Title is the stage name formatted for display, e.g. "Technical".
func (s Stage) Title() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseStage converts a stage name back into a Stage.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	parsed, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Question is a single interview prompt.
type Question struct {
	Text             string `json:"text" yaml:"text"`
	TimeLimitSeconds int    `json:"timeLimitSeconds,omitempty" yaml:"time_limit_seconds,omitempty"`
}

// UnmarshalJSON accepts either {"text": ...} or a bare string.
func (q *Question) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*q = Question{Text: text}
		return nil
	}
	type plain Question
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*q = Question(p)
	return nil
}

// UnmarshalYAML accepts either a mapping or a plain scalar.
func (q *Question) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*q = Question{Text: node.Value}
		return nil
	}
	type plain Question
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*q = Question(p)
	return nil
}

// QuestionSet holds the question groups of an interview.
// A nil slice means the group is missing; an empty slice is a group with no questions.
type QuestionSet struct {
	Intro       *Question  `json:"intro" yaml:"intro"`
	Technical   []Question `json:"technical" yaml:"technical"`
	General     []Question `json:"general" yaml:"general"`
	Situational []Question `json:"situational" yaml:"situational"`
	Conclusion  *Question  `json:"conclusion" yaml:"conclusion"`
}

// Total is the number of questions across all stages.
func (qs QuestionSet) Total() int {
	return 2 + len(qs.Technical) + len(qs.General) + len(qs.Situational)
}

// Definition is the read-only interview fetched from the remote API.
type Definition struct {
	ID        string      `json:"id" yaml:"id"`
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	Questions QuestionSet `json:"questions" yaml:"questions"`
}

// Validate reports ErrDefinitionInvalid when a required question group is missing.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrDefinitionInvalid)
	}
	q := d.Questions
	if q.Intro == nil || strings.TrimSpace(q.Intro.Text) == "" {
		return fmt.Errorf("%w: intro question is required", ErrDefinitionInvalid)
	}
	if q.Conclusion == nil || strings.TrimSpace(q.Conclusion.Text) == "" {
		return fmt.Errorf("%w: conclusion question is required", ErrDefinitionInvalid)
	}
	groups := []struct {
		name string
		qs   []Question
	}{
		{"technical", q.Technical},
		{"general", q.General},
		{"situational", q.Situational},
	}
	for _, g := range groups {
		if g.qs == nil {
			return fmt.Errorf("%w: %s questions are missing", ErrDefinitionInvalid, g.name)
		}
		for i, question := range g.qs {
			if strings.TrimSpace(question.Text) == "" {
				return fmt.Errorf("%w: %s question %d has no text", ErrDefinitionInvalid, g.name, i)
			}
		}
	}
	return nil
}

// byStage lays the question groups out as one slice per stage.
// Intro and conclusion always hold exactly one question after validation.
func (qs QuestionSet) byStage() [NumStages][]Question {
	var out [NumStages][]Question
	if qs.Intro != nil {
		out[StageIntro] = []Question{*qs.Intro}
	}
	out[StageTechnical] = qs.Technical
	out[StageGeneral] = qs.General
	out[StageSituational] = qs.Situational
	if qs.Conclusion != nil {
		out[StageConclusion] = []Question{*qs.Conclusion}
	}
	return out
}

// Entry is a question together with its position in the session.
type Entry struct {
	Stage    Stage
	Index    int
	Question Question
}

// Flatten lists every question in the order the session asks them.
func (qs QuestionSet) Flatten() []Entry {
	out := make([]Entry, 0, qs.Total())
	for s, group := range qs.byStage() {
		for i, q := range group {
			out = append(out, Entry{Stage: Stage(s), Index: i, Question: q})
		}
	}
	return out
}

// Responses holds one answer slot per question, indexed by stage.
// An empty string means "not yet answered".
type Responses [NumStages][]string

// Stage returns the response slots of a stage.
func (r Responses) Stage(s Stage) []string {
	if s < StageIntro || int(s) >= NumStages {
		return nil
	}
	return r[s]
}

// Answered counts the non-blank slots.
func (r Responses) Answered() int {
	n := 0
	for _, slots := range r {
		for _, text := range slots {
			if strings.TrimSpace(text) != "" {
				n++
			}
		}
	}
	return n
}

// Ordered flattens the slots in stage order, dropping blank answers.
func (r Responses) Ordered() []string {
	out := make([]string, 0, len(r[StageTechnical])+len(r[StageGeneral])+len(r[StageSituational])+2)
	for _, slots := range r {
		for _, text := range slots {
			if strings.TrimSpace(text) != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func (r Responses) clone() Responses {
	var out Responses
	for i, slots := range r {
		out[i] = append([]string(nil), slots...)
	}
	return out
}

// Recording is the logical recorder state tracked by the controller.
type Recording struct {
	Active         bool `json:"active"`
	Paused         bool `json:"paused"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
}

// SessionState is a snapshot of an interview session.
type SessionState struct {
	Stage        Stage     `json:"stage"`
	Index        int       `json:"indexWithinStage"`
	Responses    Responses `json:"-"`
	RetakeCount  int       `json:"retakeCount"`
	Recording    Recording `json:"recording"`
	VideoEnabled bool      `json:"videoEnabled"`
	AudioEnabled bool      `json:"audioEnabled"`
	// MediaAvailable is false when the session runs without a capture stream.
	MediaAvailable bool `json:"mediaAvailable"`
}

// Ack is the remote API's acknowledgement of a submission.
type Ack struct {
	InterviewID string    `json:"interviewId"`
	Received    int       `json:"received"`
	SubmittedAt time.Time `json:"submittedAt"`
}
