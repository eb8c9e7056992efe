package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/admin"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/services"
)

func main() {

	command := ""
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		command = os.Args[1]
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	accounts := services.NewAccountService(db, rm, cryptox.NewPasswordHasher(cfg.BcryptCost), nil, logger)
	app := admin.NewApp(accounts, os.Stdin, os.Stdout)

	if err := app.Run(ctx, command); err != nil {
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}

}
