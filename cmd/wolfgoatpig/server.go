package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lox/wolfgoatpig/cmd/wolfgoatpig/shared"
	"github.com/lox/wolfgoatpig/internal/auth"
	"github.com/lox/wolfgoatpig/internal/repositories/round"
	"github.com/lox/wolfgoatpig/internal/server"
)

// ServerCmd runs the WebSocket game server
type ServerCmd struct {
	Config   string `short:"c" default:"wolfgoatpig.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" help:"Server port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Redis    string `help:"Redis address for round persistence (overrides config)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply command line overrides
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Redis != "" {
		if cfg.Redis == nil {
			cfg.Redis = &server.RedisSettings{}
		}
		cfg.Redis.Addr = c.Redis
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)

	// Without Redis, rounds fall back to an in-process store that does not
	// survive a restart.
	var repo round.Repository
	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo, err = round.NewRedis(&round.Config{RedisClient: client})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("Round persistence enabled", "redis", cfg.Redis.Addr)
	} else {
		repo = round.NewMemory()
		logger.Warn("No Redis configured, rounds are stored in memory only")
	}

	var opts []server.ServerOption
	if cfg.Auth != nil {
		opts = append(opts,
			server.WithAuthValidator(auth.NewHTTPValidator(cfg.Auth.URL, cfg.Auth.AdminSecret)),
			server.WithAuthFailOpen(cfg.Auth.FailOpen))
		logger.Info("External auth enabled", "url", cfg.Auth.URL, "fail_open", cfg.Auth.FailOpen)
	}

	manager := server.NewSessionManager(logger, cfg.Game, repo, nil)
	srv := server.NewServer(cfg.GetServerAddress(), logger, manager, opts...)
	manager.SetBroadcaster(srv)

	logger.Info("Starting Wolf Goat Pig server",
		"addr", cfg.GetServerAddress(),
		"min_players", cfg.Game.MinPlayers,
		"max_players", cfg.Game.MaxPlayers,
		"partner_timeout_seconds", cfg.Game.PartnerTimeoutSeconds)

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
		return srv.Stop()
	case err := <-serverErr:
		return err
	}
}
