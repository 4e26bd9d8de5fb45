// Command useradd creates a filmvault account from the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filmvault/internal/server/auth"
	"github.com/dmitrijs2005/filmvault/internal/server/config"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
	"github.com/dmitrijs2005/filmvault/internal/useradd"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "useradd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args, os.Getenv)
	if err != nil {
		return err
	}

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Registration never signs tokens.
	us, err := services.NewUserService(db, rm, hasher, nil)
	if err != nil {
		return err
	}

	u, err := useradd.Add(ctx, us, useradd.EmailFlag(args), bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", u.Email, u.ID)
	return nil
}
