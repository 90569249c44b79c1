package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	_ "time/tzdata"

	"guildbot/cmd"
	"guildbot/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const migrateUsage = "usage: guildbot migrate up | down [steps] | status"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			log.Fatal("Migration failed: ", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Bot stopped with error: ", err)
	}
}

// runMigrate only needs the database settings, not a full bot configuration.
func runMigrate(args []string) error {
	if len(args) == 0 {
		return errors.New(migrateUsage)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	migrator, err := database.NewMigrator(database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME")))
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch args[0] {
	case "up":
		return migrator.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		return migrator.Down(steps)
	case "status":
		return migrator.Status()
	default:
		return fmt.Errorf("unknown migrate command %q; %s", args[0], migrateUsage)
	}
}
