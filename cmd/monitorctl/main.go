// monitorctl fetches the support monitor feed once and prints the pivot.
//
// Usage:
//
//	monitorctl [-url URL] [-all-hours] [-chart] [-html out.html]
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"support-monitor/internal/config"
	"support-monitor/internal/logger"
	"support-monitor/internal/model"
	"support-monitor/internal/render"
	"support-monitor/internal/repository"
	"support-monitor/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	url := flag.String("url", cfg.Upstream.URL, "support monitor endpoint")
	allHours := flag.Bool("all-hours", !cfg.Display.HideFutureHours, "show all 24 hours instead of hours before now")
	chart := flag.Bool("chart", false, "plot hourly PIN generation totals")
	htmlOut := flag.String("html", "", "also write a standalone HTML page to this path")
	flag.Parse()

	log := logger.New(cfg.Environment).Level(zerolog.WarnLevel)

	location, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := service.NewMonitorService(repository.NewUpstreamRepository(*url, &http.Client{}), nil, log)
	state := monitor.Load(ctx)
	if state.Phase != model.PhaseReady {
		return state.Err
	}

	view := render.BuildView(state.Table, monitor.Now().In(location).Hour(), !*allHours)

	fmt.Println(render.TextTable(view))
	fmt.Print(render.Summary(view))
	if *chart {
		if plot := render.HourlyChart(view); plot != "" {
			fmt.Println()
			fmt.Println(plot)
		}
	}

	if *htmlOut != "" {
		if err := writeHTML(*htmlOut, view); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *htmlOut)
	}
	return nil
}

func writeHTML(path string, view render.View) error {
	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := renderer.Document(f, "Support Monitor", view); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
