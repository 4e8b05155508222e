package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/logging"

	log "github.com/sirupsen/logrus"
)

// secrets never live in config.toml
type secrets struct {
	sentryDSN        string
	proxySecret      string
	redisPassword    string
	postgresPassword string
	honeycombEnabled bool
}

func secretsFromEnv(cfg *config.Config) secrets {
	s := secrets{
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		proxySecret:      os.Getenv("GYM_PROXY_SECRET"),
		redisPassword:    os.Getenv("GYM_REDIS_PASS"),
		postgresPassword: os.Getenv("GYM_POSTGRES_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if cfg.SentryEnabled && s.sentryDSN == "" {
		log.Warnln("sentry enabled but SENTRY_DSN not set")
	}
	if s.proxySecret == "" {
		log.Warnln("proxy secret not set, owner ids are trusted as sent. use GYM_PROXY_SECRET")
	}
	if cfg.RedisEnabled() && s.redisPassword == "" {
		log.Errorf("redis password not set. use GYM_REDIS_PASS")
	}
	if cfg.StoreBackend == config.StorePostgres && s.postgresPassword == "" {
		log.Warnln("postgres password not set. use GYM_POSTGRES_PASS")
	}
	if s.honeycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}
	return s
}

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	envSecrets := secretsFromEnv(cfg)
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        envSecrets.sentryDSN,
		SentryServerName: "gymprogress-service",
	})
	log.Debugf("store backend: %s, port: %d, logs: [%s]", cfg.StoreBackend, cfg.Port, cfg.LogsPath)

	versionInfo, err := lastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		VersionInfo:             versionInfo,
		ProxySecret:             envSecrets.proxySecret,
		RedisPassword:           envSecrets.redisPassword,
		PostgresPassword:        envSecrets.postgresPassword,
		HoneycombTracingEnabled: envSecrets.honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("stop signal received, shutting down ...")
	server.GracefulShutdown()
}

// lastCommitHash assumes the binary runs from the repo root.
func lastCommitHash() (string, error) {
	out, err := exec.Command("/usr/bin/git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
