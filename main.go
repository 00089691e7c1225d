package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/haliguyr1-cmyk/RRTournament/cmd"
	"github.com/haliguyr1-cmyk/RRTournament/config"
	"github.com/haliguyr1-cmyk/RRTournament/database"
	log "github.com/sirupsen/logrus"
)

func main() {
	config.LoadDotEnv()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(os.Args[2:]); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: rrtournament migrate [up|down|status] [steps]")
	}

	databaseURL := config.Get().GetDatabaseURL()

	switch args[0] {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := 1
		if len(args) > 1 {
			parsed, err := strconv.Atoi(args[1])
			if err != nil || parsed < 1 {
				return fmt.Errorf("steps must be a positive number, got %q", args[1])
			}
			steps = parsed
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		version, dirty, err := database.MigrateStatus(databaseURL)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("Migration status")
		return nil
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
