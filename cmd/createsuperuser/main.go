// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command createsuperuser bootstraps the first administrator.
//
// It creates an account with the superuser flag and the admin role, then
// prints a confirmation code that can be exchanged at /api/v1/auth/token.
//
//	createsuperuser -username root -email root@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

func main() {
	username := flag.String("username", "", "username of the superuser")
	email := flag.String("email", "", "email of the superuser")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("app", "yamdb"))

	if err := run(log, *username, *email); err != nil {
		log.Error("createsuperuser_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, username, email string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return err
	}

	codes, err := sec.NewCodeGenerator(cfg.SecretKey, cfg.ConfirmationCodeTTL)
	if err != nil {
		return err
	}
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return err
	}

	// The code is printed, never mailed.
	service := auth.NewService(auth.NewUserRepository(pool), codes, tokens, mail.Discard{}, cfg.AccessTokenTTL, log)

	user, code, err := service.CreateSuperuser(ctx, auth.SignupInput{Username: username, Email: email})
	if err != nil {
		return err
	}

	fmt.Printf("Superuser %q created.\nConfirmation code (valid %s): %s\n", user.Username, codes.TTL(), code)
	return nil
}
