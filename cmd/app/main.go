// Morphology Workbench - desktop shell
package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"morphology-workbench/internal/config"
	"morphology-workbench/internal/gui"
	"morphology-workbench/internal/logging"
)

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(cfg.Debug, os.Stdout)
	logger.WithFields(logrus.Fields{
		"version":    gui.AppVersion,
		"debug_mode": cfg.Debug,
		"workers":    cfg.Workers,
		"delivery":   cfg.Delivery,
	}).Info("Starting Morphology Workbench")

	myApp := app.NewWithID(gui.AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, logger, cfg)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}
