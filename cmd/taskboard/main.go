package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/api"
	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/config"
	"github.com/tgienger/taskboard/internal/db"
	"github.com/tgienger/taskboard/internal/report"
	"github.com/tgienger/taskboard/internal/ui"
	"github.com/tgienger/taskboard/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDB     string
	flagConfig string
	flagDebug  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Kanban board for areas, projects and tasks in the terminal",
		Long: `Taskboard keeps tasks in columns grouped by area and project. Cards and
columns are rearranged by picking them up and dropping them elsewhere;
every drop is saved to a local SQLite database.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a debug log to debug.log")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// openDB resolves the database path from the flag, then config, then the
// default location
func openDB(cfg *config.Config) (*db.DB, error) {
	path := flagDB
	if path == "" {
		path = cfg.DB.Path
	}
	if path == "" {
		var err error
		if path, err = db.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if flagDebug && logFile == "" {
		logFile = "debug.log"
	}
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "taskboard")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		// the terminal belongs to the UI
		log.SetOutput(io.Discard)
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	app := ui.NewApp(database, views.ParseLayout(cfg.UI.View))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

func serveCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board as a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if flagAddr != "" {
				cfg.Server.Addr = flagAddr
			}

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("🗂  %s http://%s/api\n", report.BoldCyan("Serving"), cfg.Server.Addr)
			return api.NewServer(database).Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func seedCmd() *cobra.Command {
	var flagForce bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample areas, projects and tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx := cmd.Context()
			tree, err := database.LoadTree(ctx)
			if err != nil {
				return err
			}
			if len(tree.Areas) > 0 && !flagForce {
				return fmt.Errorf("database already has %d areas (use --force to seed anyway)", len(tree.Areas))
			}
			if err := database.Seed(ctx); err != nil {
				return err
			}
			fmt.Printf("%s sample board\n", report.Green("Seeded"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagForce, "force", false, "seed even when areas exist")
	return cmd
}

func showCmd() *cobra.Command {
	var (
		flagArea    string
		flagProject string
		flagIDs     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board as an outline",
		Long: `Print every scope, or only the one named by --area / --project.
A project needs its area.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagProject != "" && flagArea == "" {
				return fmt.Errorf("--project needs --area")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			tree, err := database.LoadTree(cmd.Context())
			if err != nil {
				return err
			}

			opts := report.Options{Whole: flagArea == "", IDs: flagIDs}
			switch {
			case flagProject != "":
				opts.Scope = board.ProjectScope(flagArea, flagProject)
			case flagArea != "":
				opts.Scope = board.AreaScope(flagArea)
			}
			return report.Print(os.Stdout, tree, opts)
		},
	}

	cmd.Flags().StringVar(&flagArea, "area", "", "area id to print")
	cmd.Flags().StringVar(&flagProject, "project", "", "project id to print")
	cmd.Flags().BoolVar(&flagIDs, "ids", false, "show entity ids")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var flagForce bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !flagForce {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", report.Bold(path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
