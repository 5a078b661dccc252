// Package registration implements the two-step sign-up flow: account
// credentials first, then the profile.
package registration

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/models"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid registration")

// Error is a user-facing validation message.
type Error struct {
	Step  int
	Field string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool { return target == ErrInvalid }

const (
	StepAccount = 1
	StepProfile = 2
)

// Account is the first step of the wizard.
type Account struct {
	Email           string      `validate:"required,email"`
	Password        string      `validate:"required,min=6"`
	ConfirmPassword string      `validate:"required,eqfield=Password"`
	Role            models.Role `validate:"oneof=candidate recruiter"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(dtos.RegisterRequest)
		if req.Role == models.RoleRecruiter && strings.TrimSpace(req.Profile.Company) == "" {
			sl.ReportError(req.Profile.Company, "Company", "Company", "required_recruiter", "")
		}
	}, dtos.RegisterRequest{})
	return v
}

// Wizard holds the in-progress form and the current step.
type Wizard struct {
	step    int
	Account Account
	Profile dtos.ProfileInput
}

func NewWizard() *Wizard {
	return &Wizard{step: StepAccount, Account: Account{Role: models.RoleCandidate}}
}

func (w *Wizard) Step() int { return w.step }

// SetSkillsCSV parses a comma separated skill list, dropping empty entries.
func (w *Wizard) SetSkillsCSV(csv string) {
	w.Profile.Skills = ParseSkills(csv)
}

// Next validates the account step and moves to the profile step.
func (w *Wizard) Next() error {
	if w.step != StepAccount {
		return nil
	}
	if err := validateAccount(w.Account); err != nil {
		return err
	}
	w.step = StepProfile
	return nil
}

// Back returns to the account step. Entered values are kept.
func (w *Wizard) Back() {
	w.step = StepAccount
}

// Submit validates the whole form and returns the request to send.
func (w *Wizard) Submit() (dtos.RegisterRequest, error) {
	if w.step != StepProfile {
		if err := w.Next(); err != nil {
			return dtos.RegisterRequest{}, err
		}
	}
	req := dtos.RegisterRequest{
		Email:    strings.TrimSpace(w.Account.Email),
		Password: w.Account.Password,
		Role:     w.Account.Role,
		Profile:  w.Profile,
	}
	if err := Validate(req); err != nil {
		return dtos.RegisterRequest{}, err
	}
	return req, nil
}

// Validate checks a registration request as the server receives it.
func Validate(req dtos.RegisterRequest) error {
	if req.Role == "" {
		req.Role = models.RoleCandidate
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	return translate(err, StepProfile)
}

func validateAccount(a Account) error {
	if err := validate.Struct(a); err != nil {
		return translate(err, StepAccount)
	}
	return nil
}

func translate(err error, step int) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	e := &Error{Step: step, Field: fe.Field()}
	switch {
	case fe.Field() == "Email" && fe.Tag() == "email":
		e.Msg = "Please enter a valid email address"
		e.Step = StepAccount
	case fe.Field() == "ConfirmPassword" && fe.Tag() == "eqfield":
		e.Msg = "Passwords do not match"
	case fe.Field() == "Password" && fe.Tag() == "min":
		e.Msg = "Password must be at least 6 characters long"
		e.Step = StepAccount
	case fe.Field() == "Role":
		e.Msg = "Role must be candidate or recruiter"
		e.Step = StepAccount
	case fe.Field() == "FirstName" || fe.Field() == "LastName":
		e.Msg = "Please provide your first and last name"
	case fe.Field() == "Company":
		e.Msg = "Company name is required for recruiters"
	case fe.Tag() == "required":
		e.Msg = "Please fill in all required fields"
		if fe.Field() == "Email" || fe.Field() == "Password" {
			e.Step = StepAccount
		}
	default:
		e.Msg = fe.Error()
	}
	return e
}

// ParseSkills splits a comma separated list and trims each entry.
func ParseSkills(csv string) []string {
	var skills []string
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
