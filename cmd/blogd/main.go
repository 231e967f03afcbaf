package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sanverite/blog-api/internal/api"
	"github.com/sanverite/blog-api/internal/config"
	"github.com/sanverite/blog-api/internal/post"
)

// @title			Blog Posts API
// @version		1.0
// @description	In-memory blog post CRUD with search and sort.
// @BasePath		/api
func main() {
	envFile := envFileArg(os.Args[1:])

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blogd: %v\n", err)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("blogd", flag.ExitOnError)
	fs.String("env", envFile, "path to an optional .env file")
	cfg.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "blogd: %v\n", err)
		os.Exit(2)
	}

	logger := cfg.NewLogger(os.Stderr)

	// Store initialization
	var seed []post.Post
	if cfg.Seed {
		seed = post.Seed()
	}
	store := post.NewStore(seed...)

	// API Server
	srv := api.NewServer(store, api.ServerOptions{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
	})

	// Start API
	srv.Start()

	// Handle shutdown signals
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	logger.Info("blogd: shutting down", "signal", sig.String())

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("blogd: graceful shutdown failed", "error", err)
	}
	logger.Info("blogd: stopped")
}

// envFileArg finds -env ahead of the full flag parse, since the .env file
// feeds the defaults the other flags are registered with.
func envFileArg(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ".env"
}
