package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/phonecat/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/phonecat/config.toml)")
	apiURL := flag.String("api", "", "catalog service address, host:port or URL (optional)")
	logFile := flag.String("log", "", `diagnostics log path, "-" disables logging (optional)`)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		APIURL:     *apiURL,
		LogFile:    *logFile,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "phonecat: %v\n", err)
		return 1
	}
	return 0
}
