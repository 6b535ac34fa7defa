package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cobot-go/internal/app"
	"cobot-go/internal/config"
	"cobot-go/internal/render"
	"cobot-go/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// app.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "cobot",
	Short: "Coworking-space booking client",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Space ID: ")
		spaceID, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading space ID: %w", err)
		}
		spaceID = strings.TrimSpace(spaceID)

		fmt.Print("Access token: ")
		tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading access token: %w", err)
		}

		cfg := config.NewConfig(spaceID, string(tokenBytes), defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Space ID: %s\n", cfg.SpaceID)
		fmt.Printf("Data Dir: %s\n", cfg.DataDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Space ID:  %s\n", cfg.SpaceID)
		fmt.Printf("API Base:  %s\n", cfg.APIBase)
		fmt.Printf("Token:     %s\n", redact(cfg.AccessToken))
		fmt.Printf("Data Dir:  %s\n", cfg.DataDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		if cfg.Notify.URL != "" {
			fmt.Printf("Webhook:   %s\n", cfg.Notify.URL)
		}
		return nil
	},
}

// redact hides all but the first four characters of a secret.
func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

// bookings command
var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Fetch and display bookings",
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceID, _ := cmd.Flags().GetString("resource")
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("Bookings")
		if err != nil {
			return err
		}
		defer a.Close()

		bookings, err := a.Bookings(cmd.Context(), resourceID, days)
		if err != nil {
			return fmt.Errorf("fetching bookings: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings found for the specified criteria.")
			return nil
		}

		table, err := render.BookingsTable(bookings)
		if err != nil {
			return err
		}
		fmt.Println(table)
		return nil
	},
}

// schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule RESOURCE",
	Short: "Show a weekly schedule for a specific resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		resourceID := args[0]

		a, err := newApp("Schedule")
		if err != nil {
			return err
		}
		defer a.Close()

		bookings, err := a.Bookings(cmd.Context(), resourceID, days)
		if err != nil {
			return fmt.Errorf("fetching schedule: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings found for the specified resource.")
			return nil
		}

		table, err := render.ScheduleTable(bookings, time.Now(), days)
		if err != nil {
			return err
		}
		fmt.Println(table)
		return nil
	},
}

// resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the space's bookable resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Resources")
		if err != nil {
			return err
		}
		defer a.Close()

		resources, err := a.Resources(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching resources: %w", err)
		}

		if len(resources) == 0 {
			fmt.Println("No resources found.")
			return nil
		}

		fmt.Println(render.ResourcesTable(resources))
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch RESOURCE",
	Short: "Poll a resource and report booking changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		resourceID := args[0]

		a, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if once {
			report, err := a.Poll(ctx, resourceID, days)
			if err != nil {
				return fmt.Errorf("poll failed: %w", err)
			}
			printReport(report)
			return nil
		}

		err = a.Watch(ctx, resourceID, days, interval, printReport)
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

// printReport writes a poll's outcome to stdout.
func printReport(r *watch.Report) {
	now := time.Now().Format("2006-01-02 15:04:05")

	if r.FirstRun {
		fmt.Printf("[%s] Recorded baseline for %s (%d bookings). Change detection starts next poll.\n",
			now, r.ResourceID, len(r.Bookings))
		return
	}

	if !r.HasChanges() {
		fmt.Printf("[%s] No changes (%d bookings).\n", now, len(r.Bookings))
		return
	}

	if len(r.Cancelled) > 0 {
		fmt.Printf("[%s] Cancelled bookings:\n", now)
		if table, err := render.BookingsTable(r.Cancelled); err == nil {
			fmt.Println(table)
		} else {
			fmt.Printf("  %d booking(s), details unavailable: %v\n", len(r.Cancelled), err)
		}
	}
	if len(r.Added) > 0 {
		fmt.Printf("[%s] New bookings:\n", now)
		if table, err := render.BookingsTable(r.Added); err == nil {
			fmt.Println(table)
		} else {
			fmt.Printf("  %d booking(s), details unavailable: %v\n", len(r.Added), err)
		}
	}
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View poll operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No poll operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-20s  %s  %-8s  bookings:%d cancelled:%d new:%d  %s\n",
				op.ID,
				op.ResourceID,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				op.Bookings,
				op.Cancelled,
				op.Added,
				duration,
			)
		}
		return nil
	},
}

// archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload snapshot history files to the archive backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Archive")
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.Archive(cmd.Context())
		if err != nil {
			return fmt.Errorf("archive failed: %w", err)
		}

		fmt.Printf("Archived %d file(s)\n", count)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(bookingsCmd)
	bookingsCmd.Flags().StringP("resource", "r", "", "Specific resource ID to filter")
	bookingsCmd.Flags().IntP("days", "d", 7, "Number of days to fetch bookings for")
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().IntP("days", "d", 7, "Number of days to show")
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntP("days", "d", 7, "Size of the booking window to watch")
	watchCmd.Flags().DurationP("interval", "i", 5*time.Minute, "Time between polls")
	watchCmd.Flags().Bool("once", false, "Run a single poll cycle and exit")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(archiveCmd)
}
