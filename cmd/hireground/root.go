package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/justsurfingit/hireground/internal/auth"
	"github.com/justsurfingit/hireground/internal/client"
	"github.com/spf13/cobra"
)

const defaultAPI = "http://localhost:8080"

var rootCmd = &cobra.Command{
	Use:           "hireground",
	Short:         "Find jobs and take interviews from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "API base URL (overrides HIREGROUND_API env var)")
	rootCmd.PersistentFlags().String("token-file", "", "Session token file (overrides HIREGROUND_TOKEN_FILE env var)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log session events to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(interviewCmd)
}

// flagOrEnv returns the flag value, then the env var, then def.
func flagOrEnv(cmd *cobra.Command, flag, env, def string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// newClient builds an API client with the stored session loaded.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	session := auth.NewSession(flagOrEnv(cmd, "token-file", "HIREGROUND_TOKEN_FILE", auth.DefaultTokenFile()))
	if err := session.Load(); err != nil {
		return nil, err
	}
	return client.New(flagOrEnv(cmd, "api", "HIREGROUND_API", defaultAPI), session), nil
}

func requireLogin(c *client.Client) error {
	if !c.Session.Valid() {
		return auth.ErrNoSession
	}
	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// prompter reads one trimmed line per question.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// ask prints label and returns the next line. ok is false at end of input.
func (p *prompter) ask(label string) (string, bool) {
	io.WriteString(p.out, label)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}
