package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

const runTimeFormat = "2006-01-02 15:04"

func jobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "job",
		Aliases: []string{"j"},
		Short:   "Manage scheduled jobs",
	}
	cmd.AddCommand(jobAddCmd())
	cmd.AddCommand(jobChangeCmd())
	cmd.AddCommand(jobDeleteCmd())
	cmd.AddCommand(jobListCmd())
	cmd.AddCommand(jobShowCmd())
	cmd.AddCommand(jobRunCmd())
	cmd.AddCommand(jobResetCmd())
	return cmd
}

func jobAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add ID DAY",
		Aliases: []string{"a"},
		Short:   "Add a scheduled job (DAY: 1-28 or a weekday like MON)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			if a.store.JobExists(id) {
				return fmt.Errorf("job %q already exists", id)
			}
			if err := a.store.SetJob(id, args[1]); err != nil {
				return err
			}
			day, err := a.store.JobDayText(id)
			if err != nil {
				return err
			}
			st, err := a.store.GetJob(id)
			if err != nil {
				return err
			}
			fmt.Printf("Job %s scheduled for every %s. Next run: %s\n",
				id, day, st.NextRun.Format(runTimeFormat))
			return nil
		},
	}
}

func jobChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "change ID DAY",
		Aliases: []string{"c"},
		Short:   "Change an existing job's schedule",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			if !a.store.JobExists(id) {
				return fmt.Errorf("job %q does not exist", id)
			}
			if err := a.store.SetJob(id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Job %s updated\n", id)
			return nil
		},
	}
}

func jobDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"d"},
		Short:   "Delete a scheduled job",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			if err := a.store.DeleteJob(id); err != nil {
				return err
			}
			fmt.Printf("Job %s deleted\n", id)
			return nil
		},
	}
}

func jobListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [ID]",
		Aliases: []string{"l"},
		Short:   "List scheduled jobs (wildcards allowed)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			pattern := upperPattern(args)
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOBID\tLAST RUN\tNEXT RUN\tFREQUENCY")
			for _, id := range a.store.Jobs() {
				if !matchPrefix(pattern, id) {
					continue
				}
				st, err := a.store.GetJob(id)
				if err != nil {
					return err
				}
				day, err := a.store.JobDayText(id)
				if err != nil {
					return err
				}
				last := "Never"
				if !st.LastRun.IsZero() {
					last = st.LastRun.Format(runTimeFormat)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\tEvery %s\n",
					id, last, st.NextRun.Format(runTimeFormat), day)
			}
			return w.Flush()
		},
	}
}

func jobShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one job's schedule and due state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			st, err := a.store.GetJob(id)
			if err != nil {
				return err
			}
			day, err := a.store.JobDayText(id)
			if err != nil {
				return err
			}
			last := "Never"
			if !st.LastRun.IsZero() {
				last = st.LastRun.Format(runTimeFormat)
			}
			fmt.Printf("Job:       %s\n", id)
			fmt.Printf("Frequency: Every %s\n", day)
			fmt.Printf("Last run:  %s\n", last)
			fmt.Printf("Next run:  %s\n", st.NextRun.Format(runTimeFormat))
			fmt.Printf("Due:       %v\n", st.Due)
			return nil
		},
	}
}

func jobRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "run ID",
		Aliases: []string{"r"},
		Short:   "Record a job run (stamps last run with the current time)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			if _, err := a.store.RunJob(id); err != nil {
				return err
			}
			st, err := a.store.GetJob(id)
			if err != nil {
				return err
			}
			fmt.Printf("Job %s run recorded at %s. Next run: %s\n",
				id, st.LastRun.Format(runTimeFormat), st.NextRun.Format(runTimeFormat))
			return nil
		},
	}
}

func jobResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset ID",
		Short: "Clear a job's last run so it is due again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			id := strings.ToUpper(args[0])
			if err := a.store.ResetJob(id); err != nil {
				return err
			}
			fmt.Printf("Job %s reset\n", id)
			return nil
		},
	}
}
