// Command tacticsd runs the tactics engine's HTTP service: config load,
// storage backend selection, and signal-driven graceful shutdown of the
// router.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/gravitas-games/tacticsd/internal/config"
	"github.com/gravitas-games/tacticsd/internal/httpapi"
	"github.com/gravitas-games/tacticsd/internal/logging"
	"github.com/gravitas-games/tacticsd/internal/orchestrator"
	"github.com/gravitas-games/tacticsd/internal/recipe"
	"github.com/gravitas-games/tacticsd/internal/store"
	"github.com/gravitas-games/tacticsd/internal/store/memstore"
	"github.com/gravitas-games/tacticsd/internal/store/redisstore"
)

func main() {
	logging.Init()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/tacticsd.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}

	matches, history, policies, users := buildStores(cfg)

	svc := orchestrator.New(matches, history, policies, users, recipe.NewCatalog(recipe.DefaultRecipes()))
	svc.Explorer = mathrand.New(mathrand.NewSource(cryptoSeed()))

	tokens, err := httpapi.NewTokenIssuer(cfg.JWT.Issuer, time.Duration(cfg.JWT.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}

	router := httpapi.NewRouter(httpapi.New(svc, tokens))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("store", cfg.Store.Backend).Msg("tacticsd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatal().Err(err).Msg("server error")
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("tacticsd stopped")
}

func buildStores(cfg *config.Config) (store.MatchStore, store.HistoryStore, store.PolicyStore, store.UserStore) {
	if cfg.Store.Backend == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewMatchStore(client), redisstore.NewHistoryStore(client), redisstore.NewPolicyStore(client), redisstore.NewUserStore(client)
	}
	return memstore.NewMatchStore(), memstore.NewHistoryStore(), memstore.NewPolicyStore(), memstore.NewUserStore()
}

// cryptoSeed draws a seed from crypto/rand so the AI's epsilon-greedy
// exploration isn't reproducible across process restarts in production.
func cryptoSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return time.Now().UnixNano()
	}
	return n.Int64()
}
