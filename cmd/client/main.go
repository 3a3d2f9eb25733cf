package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/discera/discera-client/internal/buildinfo"
	"github.com/discera/discera-client/internal/client/cli"
	"github.com/discera/discera-client/internal/client/config"
	"github.com/discera/discera-client/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
