// Package main provides a CLI that plays bot-only ludo games.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ludo/internal/config"

	ludosimcmd "ludo/internal/cmd/ludosim"
)

func main() {
	cfg, err := ludosimcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ludosimcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
