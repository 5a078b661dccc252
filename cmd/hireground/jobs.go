package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list [search terms]",
	Short: "List open postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		f := dtos.JobFilter{Query: strings.Join(args, " ")}
		f.Location, _ = cmd.Flags().GetString("location")
		if cmd.Flags().Changed("remote") {
			remote, _ := cmd.Flags().GetBool("remote")
			f.Remote = &remote
		}
		jobs, err := c.ListJobs(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No jobs found")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tSTATUS")
		for _, j := range jobs {
			loc := j.Location
			if j.Remote {
				loc = strings.TrimSpace(loc + " (remote)")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company.Name, loc, j.Status)
		}
		return tw.Flush()
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		j, err := c.GetJob(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s at %s\n", j.Title, j.Company.Name)
		if j.Location != "" {
			fmt.Fprintf(out, "Location: %s\n", j.Location)
		}
		if j.SalaryRange != "" {
			fmt.Fprintf(out, "Salary:   %s\n", j.SalaryRange)
		}
		if len(j.Skills) > 0 {
			fmt.Fprintf(out, "Skills:   %s\n", strings.Join(j.Skills, ", "))
		}
		fmt.Fprintf(out, "\n%s\n", j.Description)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a posting with the resume on your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := requireLogin(c); err != nil {
			return err
		}
		if path, _ := cmd.Flags().GetString("resume"); path != "" {
			if err := uploadResume(cmd, c, path); err != nil {
				return err
			}
		}
		letter, _ := cmd.Flags().GetString("cover-letter")
		app, err := c.Apply(cmd.Context(), id, letter)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied (application %d, status %s)\n", app.ID, app.Status)
		return nil
	},
}

func init() {
	jobsListCmd.Flags().String("location", "", "Filter by location")
	jobsListCmd.Flags().Bool("remote", false, "Only remote (true) or on-site (false) postings")
	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd)

	applyCmd.Flags().String("cover-letter", "", "Cover letter text")
	applyCmd.Flags().String("resume", "", "Upload this resume file before applying")
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
