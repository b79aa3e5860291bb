package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repo-archiver/internal/age"
	"repo-archiver/internal/github"
	"repo-archiver/internal/inventory"
	"repo-archiver/internal/tui"
)

func main() {
	var (
		dryRun bool
		ageStr string
	)

	root := &cobra.Command{
		Use:           "repo-archiver",
		Short:         "Interactive CLI to archive old GitHub repos",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), ageStr, dryRun)
		},
	}
	root.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be archived without making changes")
	root.Flags().StringVar(&ageStr, "age", "", "Archive repos older than this age (e.g. 8y, 6m); omit for an interactive picker")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, ageStr string, dryRun bool) error {
	if err := github.CheckCLI(); err != nil {
		return err
	}

	var chosen age.Age
	if ageStr != "" {
		a, err := age.Parse(ageStr)
		if err != nil {
			return err
		}
		chosen = a
	} else {
		a, err := tui.RunAgePicker()
		if err != nil {
			return fmt.Errorf("age picker: %w", err)
		}
		if a == nil {
			// user cancelled
			return nil
		}
		chosen = *a
	}

	cutoff := chosen.Cutoff(time.Now())
	client := github.NewCLIClient(github.Options{})

	fmt.Printf("Finding repos older than %s...\n", chosen)
	repos, err := client.ListRepos(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Printf("No repos found older than %s.\n", chosen)
		return nil
	}
	fmt.Printf("Found %d repos. Launching TUI...\n", len(repos))

	return tui.Run(inventory.New(repos), client, dryRun)
}
