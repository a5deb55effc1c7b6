// Command arena runs a round-robin Odd/Even tournament among the built-in
// strategies, with optional Postgres persistence, Redis action streaming and a
// websocket spectator feed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/oddlab/oddeven/engine"
	"github.com/oddlab/oddeven/internal/cache"
	"github.com/oddlab/oddeven/internal/config"
	"github.com/oddlab/oddeven/internal/database"
	"github.com/oddlab/oddeven/internal/league"
	"github.com/oddlab/oddeven/internal/referee"
	"github.com/oddlab/oddeven/internal/stream"
	"github.com/oddlab/oddeven/strategy"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store league.ResultStore
	if cfg.PostgresDSN != "" {
		db, err := database.Connect(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer db.Close()
		store = db
		logger.Info("match persistence enabled")
	}

	var actions referee.ActionSink
	if cfg.RedisAddr != "" {
		pub, err := cache.NewPublisher(ctx, cfg.RedisAddr, cfg.RedisQueue, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer pub.Close()
		actions = pub
		logger.WithField("queue", cfg.RedisQueue).Info("action streaming enabled")
	}

	var events referee.EventSink
	if cfg.StreamAddr != "" {
		hub := stream.NewHub(logger)
		events = hub
		srv := &http.Server{Addr: cfg.StreamAddr, Handler: hub.Handler()}
		go func() {
			logger.WithField("addr", cfg.StreamAddr).Info("spectator stream listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("spectator stream failed")
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	rules := engine.GameRules{
		MinValue:    cfg.MinValue,
		MaxValue:    cfg.MaxValue,
		TotalRounds: cfg.TotalRounds,
	}
	strategyCfg := strategy.DefaultConfig()
	strategyCfg.MinValue = cfg.MinValue
	strategyCfg.MaxValue = cfg.MaxValue

	registry := league.DefaultRegistry()
	ref := referee.New(cfg.MoveTimeout, actions, events, logger)
	mgr := league.NewManager(registry, rules, strategyCfg, ref, store, logger)

	// One entrant per built-in strategy, each playing under its own name.
	var entrants []league.Entrant
	for _, name := range registry.Names() {
		entrants = append(entrants, league.Entrant{PlayerID: name, StrategyName: name})
	}

	logger.WithFields(logrus.Fields{
		"entrants": len(entrants),
		"rounds":   rules.TotalRounds,
		"seed":     cfg.TournamentSeed,
	}).Info("starting tournament")

	standings, err := mgr.RunTournament(ctx, entrants, cfg.TournamentSeed)
	if err != nil {
		logger.WithError(err).Fatal("tournament failed")
	}

	for i, s := range standings {
		logger.WithFields(logrus.Fields{
			"rank":       i + 1,
			"player":     s.PlayerID,
			"record":     fmt.Sprintf("%dW-%dL-%dT", s.Wins, s.Losses, s.Ties),
			"rounds_won": s.RoundsWon,
		}).Info("final standing")
	}
}
