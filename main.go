package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"weft/internal/app"
	"weft/internal/config"
	"weft/internal/logger"
	"weft/internal/mock"
	"weft/internal/styles"
	"weft/sdk/agent"
)

func main() {
	cliApp := &cli.App{
		Name:  "weft",
		Usage: "terminal client for an agent server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "agent server URL",
				Value:   "http://localhost:4096",
				EnvVars: []string{"WEFT_SERVER"},
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"C"},
				Usage:   "working directory to scope the session to",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "model as provider/model, e.g. anthropic/claude-sonnet-4-5",
			},
			&cli.BoolFlag{
				Name:  "mock",
				Usage: "run against a built-in scripted server",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "color theme",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := logger.Init(c.Bool("debug")); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: logging disabled:", err)
	}

	if theme := c.String("theme"); theme != "" {
		if !styles.SetTheme(theme) {
			return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(styles.ThemeNames(), ", "))
		}
	} else if prefs, err := config.LoadPreferences(); err == nil && prefs.Theme != "" {
		styles.SetTheme(prefs.Theme)
	}

	serverURL := c.String("server")
	if c.Bool("mock") {
		srv, err := mock.Start()
		if err != nil {
			return fmt.Errorf("start mock server: %w", err)
		}
		defer srv.Stop()
		serverURL = srv.URL()
		logger.Infof("mock server at %s", serverURL)
	}

	directory := c.String("directory")
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		directory = cwd
	}

	var model *agent.ModelInfo
	if spec := c.String("model"); spec != "" {
		parsed, err := parseModel(spec)
		if err != nil {
			return err
		}
		model = parsed
	}

	client := agent.NewClient(serverURL,
		agent.WithDirectory(directory),
		agent.WithTimeout(60*time.Second),
	)

	m := app.New(app.Options{
		Client:    client,
		Directory: directory,
		Model:     model,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func parseModel(spec string) (*agent.ModelInfo, error) {
	provider, modelID, ok := strings.Cut(spec, "/")
	if !ok || provider == "" || modelID == "" {
		return nil, fmt.Errorf("invalid model %q, want provider/model", spec)
	}
	return &agent.ModelInfo{ProviderID: provider, ModelID: modelID}, nil
}
