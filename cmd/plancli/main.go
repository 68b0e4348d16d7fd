package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gymflow/fitness-app/internal/client"
	"gymflow/fitness-app/internal/config"
	"gymflow/fitness-app/internal/plancli"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadClientConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %s\n", err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := plancli.New(cfg, client.NewFileTokenStore(cfg.TokenPath), os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, plancli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "run 'plancli help' for usage")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, plancli.DescribeError(err))
		os.Exit(1)
	}
}
