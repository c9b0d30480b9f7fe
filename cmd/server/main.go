// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/avelikov/guildbot/internal/auth"
	"github.com/avelikov/guildbot/internal/contest"
	"github.com/avelikov/guildbot/internal/database"
	"github.com/avelikov/guildbot/internal/handlers"
	"github.com/avelikov/guildbot/internal/identity"
	"github.com/avelikov/guildbot/internal/middleware"
	"github.com/avelikov/guildbot/internal/roles"
	"github.com/avelikov/guildbot/internal/router"
	"github.com/avelikov/guildbot/internal/store"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	ctx := context.Background()

	// Postgres backs role assignments and display names. Without it the bot
	// still runs, with in-memory roles and fallback names.
	var roleStore roles.Store
	var names identity.Resolver
	if err := database.ConnectDB(); err != nil {
		logger.Warnf("postgres unavailable, using in-memory roles: %v", err)
		roleStore = roles.NewMemoryStore()
		names = identity.NewMemory()
	} else {
		if err := database.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		roleStore = &database.RoleStore{}
		names = identity.NewDBResolver()
	}

	// Redis snapshots lottery state per chat so it survives restarts.
	var gateway contest.Gateway
	if rg, err := store.ConnectRedis(ctx); err != nil {
		logger.Warnf("redis unavailable, contest state will not persist: %v", err)
	} else {
		gateway = rg
	}

	reg := contest.NewRegistry(gateway, logger)
	roleSvc := roles.NewService(roleStore)
	rt := router.New(reg, roleSvc, names, logger)

	mux := http.NewServeMux()

	// bridge endpoints
	mux.HandleFunc("/bridge/login", handlers.BridgeLoginHandler)
	mux.Handle("/bridge/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.BridgeWSHandler(logger, rt),
	)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// message webhook
	mux.Handle("/v1/message", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.MessageHandler(logger, rt),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
