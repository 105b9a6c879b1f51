package main

import (
	"context"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"store-rating/internal/app"
)

func main() {
	cfg, log, cleanup, err := app.Bootstrap()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Serve(ctx, "store api", cfg.App.HTTP.Host, cfg.App.HTTP.Port, a.APIEngine()); err != nil {
		log.Error("store api exited", zap.Error(err))
	}
}
