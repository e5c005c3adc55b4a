package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/platform/tui"
)

var (
	flagHistory      bool
	flagInteractive  bool
	flagLimit        int
	flagClearHistory bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show the Hall of Ravens",
	Long: `Display the high-score list shared by every variant.

With --history the latest flights of a variant are listed with their
fate and a summary of all flights.

Examples:
  raven scores
  raven scores --history
  raven scores raven-saga --history --limit 50
  raven scores -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagHistory, "history", false, "Show recent flights and statistics")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the scores in a full-screen view")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of flights listed with --history")
	scoresCmd.Flags().BoolVar(&flagClearHistory, "clear-history", false, "Delete the flight history of the variant")
}

func runScores(_ *cobra.Command, args []string) error {
	id, err := variantArg(args)
	if err != nil {
		return err
	}

	svc := openServices(false)
	defer svc.Close()
	ctx := context.Background()

	if flagInteractive {
		cfg := runtimeConfig()
		return tui.RunScoreboard(svc.board, svc.history(), id, cfg.ScreenW, cfg.ScreenH)
	}

	if flagClearHistory {
		if svc.store == nil {
			return errors.New("no database available")
		}
		if err := svc.store.ClearRuns(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Flight history of %s cleared.\n", id)
		return nil
	}

	fmt.Println("Hall of Ravens")
	fmt.Println()

	list := svc.board.Load(ctx)
	if len(list) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'raven play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-24s  %s\n", "Rank", "Name", "Score")
		fmt.Printf("  %-4s  %-24s  %s\n", "----", "----", "-----")
		for i, e := range list {
			fmt.Printf("  %-4d  %-24s  %d\n", i+1, e.Name, e.Score)
		}
	}

	if !flagHistory {
		return nil
	}
	if svc.store == nil {
		return errors.New("no database available for the flight history")
	}
	return printHistory(ctx, svc, id)
}

func printHistory(ctx context.Context, svc *services, variant string) error {
	runs, err := svc.store.RecentRuns(ctx, variant, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Recent flights - %s\n", variant)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No flights recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-16s  %5s  %8s  %s\n", "When", "Name", "Score", "Flight", "Fate")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-16s  %5d  %8s  %s\n",
			humanize.Time(r.CreatedAt), r.Name, r.Score,
			r.Duration.Round(100*time.Millisecond), r.Cause)
	}

	st, err := svc.store.Stats(ctx, variant)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Flights: %s  Best: %d  Average: %.1f  Runes: %s  Time aloft: %s\n",
		humanize.Comma(int64(st.Runs)), st.HighScore, st.AvgScore,
		humanize.Comma(st.TotalScore), st.FlightTime.Round(time.Second))
	if !st.LastPlayed.IsZero() {
		fmt.Printf("Last flight: %s\n", humanize.Time(st.LastPlayed))
	}
	return nil
}
