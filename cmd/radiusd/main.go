// Command radiusd runs the RADIUS authentication and accounting listeners.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/telcokit/radiusd/pkg/acct"
	"github.com/telcokit/radiusd/pkg/auth"
	"github.com/telcokit/radiusd/pkg/config"
	"github.com/telcokit/radiusd/pkg/event"
	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/server"
	"github.com/telcokit/radiusd/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.NewDefaultLogger().Fatalf("load config: %v", err)
	}

	logger := log.NewLoggerWithLevel(cfg.LogLevel)

	credentials, err := store.LoadCredentialFile(cfg.UsersFile)
	if err != nil {
		logger.Fatalf("load users: %v", err)
	}

	nas, err := store.LoadNASFile(cfg.ClientsFile)
	if err != nil {
		logger.Fatalf("load clients: %v", err)
	}

	redisClient, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		logger.Fatalf("connect session store: %v", err)
	}
	defer redisClient.Close()

	sessions := store.NewBreakerSessionStore(store.NewRedisSessionStore(redisClient), logger)

	sink := event.MultiSink{
		event.NewLogSink(logger),
		event.NewRedisSink(redisClient, cfg.EventChannel, logger),
	}

	authEngine := auth.NewEngine(credentials, nas, sink, cfg.FallbackSecret, logger)
	acctEngine := acct.NewEngine(sessions, sink, logger)

	authServer := server.New(cfg.AuthListenAddr, server.NewAuthHandler(authEngine), logger)
	acctServer := server.New(cfg.AcctListenAddr, server.NewAcctHandler(acctEngine, nas, cfg.FallbackSecret, logger), logger)

	errCh := make(chan error, 2)
	go func() { errCh <- authServer.ListenAndServe() }()
	go func() { errCh <- acctServer.ListenAndServe() }()

	logger.WithFields(log.Fields{
		"auth_addr": cfg.AuthListenAddr,
		"acct_addr": cfg.AcctListenAddr,
	}).Info("radiusd started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("received %s, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			logger.Errorf("listener failed: %v", err)
		}
	}

	authServer.Close()
	acctServer.Close()
	logger.Info("radiusd stopped")
}
