package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/lawnmower-mp/config"
	"github.com/automoto/lawnmower-mp/game"
	"github.com/automoto/lawnmower-mp/logging"
	"github.com/automoto/lawnmower-mp/network"
	"github.com/automoto/lawnmower-mp/shared/messages"
	"github.com/automoto/lawnmower-mp/shared/protocol"
	"github.com/yohamta/donburi"
)

func main() {
	addr := flag.String("addr", "localhost:7373", "Server address (host:port)")
	name := flag.String("name", "Mower", "Player display name")
	userID := flag.String("user", "", "User id for the join request")
	token := flag.String("token", "", "Auth token for the join request")
	logFile := flag.String("log-file", "", "Rolling log file (empty = stderr only)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	appName := flag.String("app", "lawnmower-mp", "App name for saved tuning overrides")
	saveTuning := flag.Bool("save-tuning", false, "Write the effective tuning to the save store and exit")
	flag.Parse()

	logger, flush, err := logging.New(logging.Options{File: *logFile, Level: *logLevel, Console: true})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer flush()

	tuning := config.Net
	store, err := config.OpenStore(*appName)
	if err != nil {
		logger.Warnw("tuning store unavailable, using defaults", "error", err)
	} else if tuning, err = store.Load(tuning); err != nil {
		logger.Warnw("could not load tuning overrides", "error", err)
	}
	if *saveTuning {
		if store == nil {
			logger.Fatalw("no tuning store to save to")
		}
		if err := store.Save(tuning); err != nil {
			logger.Fatalw("save tuning", "error", err)
		}
		logger.Infow("tuning saved", "app", *appName)
		return
	}

	reg, err := protocol.NewRegistry()
	if err != nil {
		logger.Fatalw("register components", "error", err)
	}

	session := network.NewSession(donburi.NewWorld(), reg, nil, tuning, logger.Named("session"))
	client := network.NewClient(session, logger.Named("client"))
	session.SetSender(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("connecting", "addr", *addr, "name", *name)
	client.Connect(*addr, messages.JoinGame{PlayerName: *name, UserID: *userID, Token: *token})
	defer client.Disconnect()

	loop := game.NewLoop(session, game.NewCircleInput(time.Now()))
	if lost := loop.Run(ctx); lost != nil {
		logger.Infow("session lost", "reason", lost.Reason, "kicked", lost.Kicked)
		return
	}
	logger.Infow("shutting down")
}
