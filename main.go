package main

import (
	"context"
	"flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/app"
	"github.com/tablegate/tablegate/internal/changefeed"
	"github.com/tablegate/tablegate/internal/config"
	"github.com/tablegate/tablegate/internal/gateway"
	"github.com/tablegate/tablegate/internal/server"
	"os"
	"time"
)

const (
	serviceName = "tablegate"
	stopTimeout = 30 * time.Second
	dialTimeout = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $"+config.EnvConfigPath+")")
	flag.Parse()

	application, err := initialize(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	if err = application.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("application stopped with an error")
	}
}

func setupLogger(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func initialize(configPath string) (*app.App, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Debug)

	var deps []app.Dependency

	gwCfg := &gateway.Config{
		Workers:     cfg.Pool.Workers,
		CallTimeout: cfg.Pool.Timeout(),
	}
	// the change feed is optional
	if cfg.ChangeFeed.Port != 0 {
		feed, err := changefeed.New(&changefeed.Config{
			Address: cfg.ChangeFeed.Address,
			Port:    cfg.ChangeFeed.Port,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, feed)
		gwCfg.Feed = feed
	}

	if cfg.Pool.MaxRequestsPerChannel > 0 {
		log.Info().Int("maxRequestsPerChannel", cfg.Pool.MaxRequestsPerChannel).
			Msg("per channel request limit is managed by the gRPC transport and is not enforced here")
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	admin, data, err := gateway.Dial(ctx, &gateway.ClientOptions{
		Project:         cfg.Bigtable.ProjectID,
		Instance:        cfg.Bigtable.InstanceID,
		CredentialsFile: cfg.Bigtable.CredentialsFile,
		EmulatorHost:    cfg.Bigtable.EmulatorHost,
		Channels:        cfg.Pool.Channels,
		Retry: gateway.Retry{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: cfg.Retry.InitialDelay(),
			MaxDelay:     cfg.Retry.MaxDelay(),
			Multiplier:   cfg.Retry.Multiplier,
		},
	})
	if err != nil {
		return nil, err
	}
	gwCfg.Admin = admin
	gwCfg.Data = data

	gw, err := gateway.New(gwCfg)
	if err != nil {
		_ = data.Close()
		_ = admin.Close()
		return nil, err
	}
	deps = append(deps, gw)

	srv, err := server.New(&server.Config{
		Address: cfg.Server.Address,
		Port:    cfg.Server.Port,
		Gateway: gw,
		Auth: &server.AuthConfig{
			JWTSecret: cfg.Auth.JWTSecret,
			Issuer:    cfg.Auth.Issuer,
			Audience:  cfg.Auth.Audience,
		},
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	return app.CreateApp(&app.Config{
		ServiceName: serviceName,
		StopTimeout: stopTimeout,
	}, deps...)
}
