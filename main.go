package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patchwerk/discord-riddle-bot/config"
	"github.com/patchwerk/discord-riddle-bot/database"
	"github.com/patchwerk/discord-riddle-bot/discord"
	"github.com/patchwerk/discord-riddle-bot/logging"
	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/riddle"
	"github.com/patchwerk/discord-riddle-bot/schedule"
	"github.com/patchwerk/discord-riddle-bot/store"
	"github.com/patchwerk/discord-riddle-bot/tickets"
	"github.com/patchwerk/discord-riddle-bot/wordgame"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// listen and serve for metrics server.
	server := metrics.SetupServer(cfg.HTTPPort)
	go server.Run()
	logger.Info("metrics server started", "port", cfg.HTTPPort)

	st, err := store.New(cfg.DataDir, logger)
	if err != nil {
		log.Fatalln(err)
	}

	bank := riddle.NewBank(st)
	if err := bank.Load(); err != nil {
		log.Fatalln(err)
	}
	board := riddle.NewScoreboard(st)
	if err := board.Load(); err != nil {
		log.Fatalln(err)
	}
	policy := riddle.NewChannelPolicy(cfg.ChannelPolicyMode, st)
	if err := policy.Load(); err != nil {
		log.Fatalln(err)
	}
	words := wordgame.New(st, logger)
	if err := words.Load(); err != nil {
		log.Fatalln(err)
	}
	desk := tickets.NewManager(st, logger)
	if err := desk.Load(); err != nil {
		log.Fatalln(err)
	}

	var matcher riddle.Matcher = riddle.ExactMatcher{}
	if cfg.MatchStrategy == config.MatchFuzzy {
		matcher = riddle.FuzzyMatcher{Threshold: cfg.FuzzyThreshold}
	}
	cooldowns := riddle.NewCooldownTracker(time.Duration(cfg.CooldownSeconds) * time.Second)
	rounds := riddle.NewManager(bank, board, cooldowns, riddle.ManagerOptions{
		SolvePolicy:         cfg.SolvePolicy,
		ResetCooldownOnPost: cfg.CooldownResetOnPost,
		Matcher:             matcher,
		Logger:              logger,
	})

	// the guess archive is optional; without postgres the bot runs on the
	// flat files alone
	var archive database.GuessArchiver = database.NoopArchiver{}
	if cfg.PostgresURL != "" {
		db, err := database.NewPostgres(cfg.PostgresURL, logger)
		if err != nil {
			log.Fatalln(err)
		}
		defer db.Close()
		archive = db
	}

	session, err := discord.Setup(ctx, cfg, discord.Deps{
		Rounds:  rounds,
		Bank:    bank,
		Board:   board,
		Policy:  policy,
		Words:   words,
		Tickets: desk,
		Archive: archive,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalln(err)
	}

	runner := schedule.NewRunner()
	if err := runner.Add(schedule.Daily(cfg.DailyPostTime), session.DailyTick); err != nil {
		log.Fatalln(err)
	}
	runner.Start()
	logger.Info("daily riddle scheduled", "at", cfg.DailyPostTime)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	log.Println("Press Ctrl+C to exit")
	<-stop

	cancel()
	runner.Stop()
	if session.Session != nil {
		if err := session.Session.Close(); err != nil {
			logger.Error("error closing discord session", "error", err.Error())
		}
	}
	logger.Info("shutting down")
}
