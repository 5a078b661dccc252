package main

import (
	"errors"
	"fmt"

	"github.com/justsurfingit/hireground/internal/models"
	"github.com/justsurfingit/hireground/internal/registration"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		p := newPrompter(cmd)
		email, _ := p.ask("Email: ")
		password, _ := p.ask("Password: ")
		resp, err := c.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and forget the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := c.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (two steps: account, then profile)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		w, err := runWizard(newPrompter(cmd))
		if err != nil {
			return err
		}
		req, err := w.Submit()
		if err != nil {
			return err
		}
		resp, err := c.Register(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in.\n", resp.User.Profile.FirstName)
		return nil
	},
}

// runWizard collects both steps, asking again whenever a step fails validation.
func runWizard(p *prompter) (*registration.Wizard, error) {
	w := registration.NewWizard()
	for w.Step() == registration.StepAccount {
		fmt.Fprintln(p.out, "Step 1 of 2: account")
		var ok bool
		if w.Account.Email, ok = p.ask("Email: "); !ok {
			return nil, errAborted
		}
		w.Account.Password, _ = p.ask("Password: ")
		w.Account.ConfirmPassword, _ = p.ask("Confirm password: ")
		role, _ := p.ask("Role [candidate/recruiter]: ")
		if role != "" {
			w.Account.Role = models.Role(role)
		}
		if err := w.Next(); err != nil {
			fmt.Fprintln(p.out, err)
		}
	}

	for {
		fmt.Fprintln(p.out, "Step 2 of 2: profile")
		var ok bool
		if w.Profile.FirstName, ok = p.ask("First name: "); !ok {
			return nil, errAborted
		}
		w.Profile.LastName, _ = p.ask("Last name: ")
		if w.Account.Role == models.RoleRecruiter {
			w.Profile.Company, _ = p.ask("Company: ")
			w.Profile.Position, _ = p.ask("Position: ")
		} else {
			skills, _ := p.ask("Skills (comma separated): ")
			w.SetSkillsCSV(skills)
		}
		w.Profile.Location, _ = p.ask("Location: ")

		_, err := w.Submit()
		if err == nil {
			return w, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

var (
	errAborted     = errors.New("aborted")
	errUnsubmitted = errors.New("interview finished but responses were not submitted")
)
