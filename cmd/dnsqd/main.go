package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lc/dnsq/internal/config"
	"github.com/lc/dnsq/internal/log"
	"github.com/lc/dnsq/internal/upstream"
	"github.com/lc/dnsq/pkg/api"
	"github.com/lc/dnsq/pkg/resolve"
)

func main() {
	// load config
	cfg, err := config.New().Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// build deps
	up := upstream.New(cfg.Resolver.Timeout,
		upstream.WithServers(cfg.Resolver.Servers),
		upstream.WithRetries(cfg.Resolver.Retries),
	)
	res := resolve.New(up, resolve.WithPostProcess(cfg.Lookup.Policy().Apply))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the api over unix socket
	apiSrv := api.New(res)
	sockPath := cfg.Socket.Path

	go func() {
		log.Infof("dnsqd: listening on %s", sockPath)
		if err := apiSrv.ListenAndServe(sockPath); err != nil {
			log.Fatalf("api listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	<-sig
	log.Info("shutting down…")

	shutdownCtx, done := context.WithTimeout(ctx, 5*time.Second)
	defer done()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("api shutdown error: %v", err)
	}
}
