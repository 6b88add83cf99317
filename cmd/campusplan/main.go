package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"campusplan/internal/config"
	appLog "campusplan/internal/log"
	"campusplan/internal/session"
	"campusplan/internal/suggest"
	"campusplan/internal/web"
)

func main() {
	// Load .env first; absence is fine.
	_ = godotenv.Load()
	appLog.SetLevel(appLog.ParseLevel(os.Getenv("LOG_LEVEL")))

	app := &cli.App{
		Name:  "campusplan",
		Usage: "Campus-life planning backend: schedules, activity suggestions, timeline layout.",
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		appLog.Error("application failed", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "/etc/campusplan/config.yaml",
				Usage: "Path to config file",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "HTTP listen address (overrides config if set)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	conf, err := config.Load(c.String("config"))
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", c.String("config"))
		return err
	}
	if listen := c.String("listen"); listen != "" {
		conf.Listen = listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"day_start", conf.DayStart,
		"day_end", conf.DayEnd,
		"generator_url", conf.Generator.URL,
		"activity_type", conf.ActivityType,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator := suggest.NewClient(conf.Generator.URL, time.Duration(conf.Generator.TimeoutSeconds)*time.Second)
	hub := web.NewHub()
	srv := web.NewServer(conf, session.NewStore(), generator, hub)

	// Minute tick keeps every connected client's "now" line moving. It
	// never touches session state.
	ticker := cron.New()
	if _, err := ticker.AddFunc(conf.TickCron, func() {
		srv.BroadcastTick(time.Now())
	}); err != nil {
		appLog.Error("invalid tick schedule", err, "tick_cron", conf.TickCron)
		return err
	}
	ticker.Start()
	defer ticker.Stop()

	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("graceful shutdown failed", err)
		}
	}

	appLog.Info("campusplan exiting")
	return nil
}
