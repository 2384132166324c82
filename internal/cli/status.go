package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/windlane/gustline/internal/core/config"
	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/infra/archive"
	"github.com/windlane/gustline/internal/infra/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached wind data and its age",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.URL == "" {
		slog.Error("status requires a redis store (redis.url not set)")
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := store.NewRedisStore(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = st.Close()
	}()

	maxAge := cfg.Refresh.MaxAge
	if maxAge <= 0 {
		maxAge = 600 * time.Second
	}
	now := time.Now()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "KIND\tSTORED\tAGE\tSTATE")

	kinds := []domain.Kind{domain.KindCurrent, domain.KindForecast, domain.KindTrend, domain.KindTimeline}
	for _, kind := range kinds {
		entry, found, err := st.Get(ctx, kind)
		if err != nil {
			slog.Error("Failed to read entry", "kind", kind, "error", err)
			os.Exit(1)
		}
		if !found {
			_, _ = fmt.Fprintf(w, "%s\t-\t-\tmissing\n", kind)
			continue
		}

		state := "fresh"
		if entry.IsStale(now, maxAge) {
			state = "stale"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			kind,
			entry.StoredAt.Format(time.RFC3339),
			now.Sub(entry.StoredAt).Round(time.Second),
			state,
		)
	}
	_ = w.Flush()

	if cfg.Database.URL != "" {
		printHistory(ctx, cfg.Database)
	}
}

// printHistory dumps the archive's per-day aggregates for the last week.
func printHistory(ctx context.Context, cfg archive.Config) {
	db, err := archive.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to archive", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	days, err := db.RecentDays(ctx, 7)
	if err != nil {
		slog.Error("Failed to query archive history", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "DAY\tAVG SPEED\tPEAK GUST")
	for _, day := range days {
		avg, peak := "-", "-"
		if day.AvgSpeedKts != nil {
			avg = fmt.Sprintf("%.1f kt", *day.AvgSpeedKts)
		}
		if day.PeakGustKts != nil {
			peak = fmt.Sprintf("%.1f kt", *day.PeakGustKts)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", day.Date.Format("2006-01-02"), avg, peak)
	}
	_ = w.Flush()
}
