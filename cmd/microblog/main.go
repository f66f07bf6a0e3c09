package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	adapthttp "microblog/internal/adapter/http"
	"microblog/internal/adapter/memory"
	"microblog/internal/adapter/postgres"
	"microblog/internal/app"
	"microblog/internal/domain"
)

func main() {
	_ = godotenv.Load()

	addr := env("ADDR", ":8080")
	ctx := context.Background()

	var (
		users    domain.UserRepository
		posts    domain.PostRepository
		sessions domain.SessionRepository
	)

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		users, posts, sessions = db.Users(), db.Posts(), db.Sessions()
	} else {
		log.Print("DATABASE_URL not set, using in-memory store")
		mem := memory.New()
		users, posts, sessions = mem.Users(), mem.Posts(), mem.Sessions()
	}

	// Seeding wipes the store, so it only runs when asked for.
	if parseBool(os.Getenv("SEED_DEMO")) {
		if err := app.Seed(ctx, users, posts); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Print("store reset to demo fixture")
	}

	authSvc := app.NewAuthService(users, sessions)
	postSvc := app.NewPostService(posts)

	oidcCfg, err := adapthttp.NewOIDCConfig(ctx,
		os.Getenv("OIDC_ISSUER"),
		os.Getenv("OIDC_CLIENT_ID"),
		os.Getenv("OIDC_CLIENT_SECRET"),
		os.Getenv("OIDC_REDIRECT_URL"),
	)
	if err != nil {
		log.Fatalf("oidc: %v", err)
	}

	h := adapthttp.New(authSvc, postSvc, oidcCfg).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}
