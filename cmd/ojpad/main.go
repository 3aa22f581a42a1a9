package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ojpad/internal/bridge"
	"ojpad/internal/cache"
	"ojpad/internal/cli/command"
	"ojpad/internal/cli/repl"
	"ojpad/internal/cliconf"
	"ojpad/internal/judge"
	"ojpad/internal/problem"
	"ojpad/internal/session"
	"ojpad/internal/solution"
	"ojpad/pkg/utils/logger"
)

const defaultConfigPath = "configs/ojpad.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	baseURL := flag.String("base", "", "Override judge base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 15s)")
	statePath := flag.String("state", "", "Override session state path")
	solutionsDir := flag.String("solutions", "", "Override solutions directory")
	serveBridge := flag.Bool("bridge", false, "Serve the panel bridge instead of the REPL")
	flag.Parse()

	cfg, err := cliconf.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *statePath != "" {
		cfg.SessionStatePath = *statePath
	}
	if *solutionsDir != "" {
		cfg.SolutionsDir = *solutionsDir
	}
	if *serveBridge {
		cfg.Bridge.Enabled = true
	}

	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	store := session.NewStore()
	state, err := session.LoadState(cfg.SessionStatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load session state failed: %v\n", err)
		return
	}
	if len(state.Cookies) > 0 {
		store.Replace(state.Cookies, state.CSRFToken)
	}

	transport := judge.NewTransport(cfg.BaseURL, cfg.Timeout, store.CookieHeader, store.CSRFToken)
	loader := solution.NewLoader(cfg.SolutionsDir, cfg.Extensions)
	client := judge.NewClient(transport, store, loader, judge.Config{
		PollInterval: cfg.Poll.Interval,
		PollAttempts: cfg.Poll.Attempts,
	})

	var metaCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			// The cache is an accelerator; a dead redis must not block the client.
			logger.Warn(context.Background(), "metadata cache unavailable, continuing without it", zap.Error(err))
		} else {
			metaCache = redisCache
			defer func() { _ = redisCache.Close() }()
		}
	}
	problems := problem.NewService(transport, metaCache, cfg.Cache.TTL)

	if cfg.Bridge.Enabled {
		runBridge(cfg.Bridge, client)
		return
	}

	deps := &command.Deps{
		Session:   store,
		StatePath: cfg.SessionStatePath,
		Judge:     client,
		Problems:  problems,
		Loader:    loader,
	}
	shell, err := repl.New(command.Registry(deps), transport, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init repl failed: %v\n", err)
		return
	}
	shell.Run(context.Background())
}

func runBridge(cfg cliconf.BridgeConfig, client *judge.Client) {
	b := bridge.New(client)
	server := bridge.NewServer(cfg.Server, b)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(context.Background(), "panel bridge stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "panel bridge shutdown failed", zap.Error(err))
	}
}
