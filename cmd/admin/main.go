package main

import (
	"context"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"store-rating/internal/app"
)

// The admin console binds to cfg.App.Admin, loopback by default.
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

	if err := a.Serve(ctx, "admin console", cfg.App.Admin.Host, cfg.App.Admin.Port, a.AdminEngine()); err != nil {
		log.Error("admin console exited", zap.Error(err))
	}
}
