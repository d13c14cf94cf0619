package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notice-guard/api/internal/handle"
	"notice-guard/api/internal/httpserver"
	"notice-guard/api/internal/notice"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /v1/notice/analyze and /healthz",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := httpserver.NewRouter("ok")
	h := handle.New(buildEngines(cfg), cfg.Provider, notice.Options{Timeout: cfg.Timeout, Logger: logger})
	h.Register(r)

	return httpserver.Serve(ctx, "0.0.0.0:"+cfg.Port, r, logger)
}
