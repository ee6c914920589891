package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nunchaku-india/voucher-desk/internal/apiclient"
	"github.com/nunchaku-india/voucher-desk/internal/config"
	"github.com/nunchaku-india/voucher-desk/internal/form"
	"github.com/nunchaku-india/voucher-desk/internal/list"
	"github.com/nunchaku-india/voucher-desk/internal/printing"
	"github.com/nunchaku-india/voucher-desk/internal/tui"
	"github.com/nunchaku-india/voucher-desk/pkg/utils"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	// Local overrides such as VOUCHER_API_URL live in .env during development.
	gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting voucher desk",
		zap.String("api_base_url", cfg.API.BaseURL))

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, logger)

	f := form.New(client, form.Defaults{
		Association:   cfg.UI.Association,
		FinancialYear: cfg.UI.FinancialYear,
	}, nil, logger)

	pipeline := printing.NewPipeline(
		printing.NewSheetRenderer(logger),
		printing.DirSpooler{Dir: cfg.Print.OutputDir},
		logger,
	)

	dialog := tui.NewProgramDialog()
	l := list.New(client, dialog, pipeline, cfg.UI.Operator, logger)

	model := tui.NewModel(context.Background(), f, l, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	dialog.Bind(program)

	if _, err := program.Run(); err != nil {
		logger.Fatal("Front end exited with error", zap.Error(err))
	}
}
