package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/justsurfingit/hireground/internal/client"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/registration"
	"github.com/spf13/cobra"
)

func uploadResume(cmd *cobra.Command, c *client.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	file, err := c.UploadResume(cmd.Context(), path, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes)\n", file.FileName, file.Size)
	return nil
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := requireLogin(c); err != nil {
			return err
		}
		p, err := c.Profile(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", p.FirstName, p.LastName)
		if len(p.Skills) > 0 {
			fmt.Fprintf(out, "Skills: %s\n", strings.Join(p.Skills, ", "))
		}
		if p.Resume != nil {
			fmt.Fprintf(out, "Resume: %s (%d bytes, uploaded %s)\n", p.Resume.FileName, p.Resume.Size, p.Resume.UploadedAt.Format("2006-01-02"))
		} else {
			fmt.Fprintln(out, "Resume: none, upload one with `hireground profile resume <file>`")
		}
		return nil
	},
}

var profileResumeCmd = &cobra.Command{
	Use:   "resume <file>",
	Short: "Upload a resume (PDF, DOCX or TXT)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := requireLogin(c); err != nil {
			return err
		}
		return uploadResume(cmd, c, args[0])
	},
}

var profileSkillsCmd = &cobra.Command{
	Use:   "skills <comma separated skills>",
	Short: "Replace the skills on your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := requireLogin(c); err != nil {
			return err
		}
		p, err := c.Profile(cmd.Context())
		if err != nil {
			return err
		}
		in := dtos.ProfileInput{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Phone:      p.Phone,
			Location:   p.Location,
			Company:    p.Company,
			Position:   p.Position,
			Skills:     registration.ParseSkills(args[0]),
			Experience: p.Experience,
			Bio:        p.Bio,
		}
		updated, err := c.UpdateProfile(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Skills: %s\n", strings.Join(updated.Skills, ", "))
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileResumeCmd, profileSkillsCmd)
	rootCmd.AddCommand(profileCmd)
}
