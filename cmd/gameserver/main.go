// Command gameserver runs the trading game's WebSocket server: lobby
// matchmaking, countdown, and the running game's tick/order-matching
// loop, all fronted by one http.Server per the teacher's feed
// simulator shape.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ndrandal/tradinggame/internal/config"
	"github.com/ndrandal/tradinggame/internal/dispatch"
	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/metrics"
	"github.com/ndrandal/tradinggame/internal/ports"
	"github.com/ndrandal/tradinggame/internal/repository"
	"github.com/ndrandal/tradinggame/internal/service"
	"github.com/ndrandal/tradinggame/internal/transport"
)

const matchmakingQueueKey = "default"

func main() {
	cfg := config.Load()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("game server starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	repo, closeRepo := openRepository(ctx, cfg)
	defer closeRepo()

	gameCfg := game.Config{
		TickInterval:      cfg.TickInterval,
		GameDuration:      cfg.GameDuration,
		MaxPriceDelta:     cfg.MaxPriceDelta,
		StartingPrice:     cfg.StartingPrice,
		CountdownDuration: cfg.CountdownDuration,
		StartingBalance:   cfg.StartingBalance,
	}

	// Construction is two-phase: the scheduler needs the services as
	// handlers, the services need the scheduler's per-port views as
	// out-ports. See dispatch.NewScheduler's doc comment.
	mgr := transport.NewManager(repo)
	scheduler := dispatch.NewScheduler()

	games := service.NewGameService(repo, mgr.GameNotifier(), scheduler.GameScheduler())
	lobbies := service.NewLobbyService(repo, mgr.LobbyNotifier(), scheduler.LobbyScheduler(), games, gameCfg)
	queue := service.NewMatchmakingService(repo, mgr.QueueNotifier(), lobbies, matchmakingQueueKey)

	scheduler.SetGameHandler(games)
	scheduler.SetLobbyHandler(lobbies)

	go sampleActiveCounts(ctx, games, lobbies)

	mux := http.NewServeMux()
	mux.HandleFunc("/game", transport.Handler(mgr, games, lobbies, queue, cfg.PlayersToStart))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","connections":%d}`, mgr.ConnectionCount())
	})
	if cfg.MetricsPort == cfg.WSPort {
		mux.Handle("/metrics", promhttp.Handler())
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.WSPort)
	srv := &http.Server{Addr: addr, Handler: mux}

	if cfg.MetricsPort != 0 && cfg.MetricsPort != cfg.WSPort {
		go serveMetrics(cfg.Host, cfg.MetricsPort)
	}

	go func() {
		<-ctx.Done()

		log.Println("draining running games...")
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := games.Drain(drainCtx); err != nil {
			log.Printf("drain failed: %v", err)
		}
		drainCancel()

		scheduler.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("WebSocket server listening on ws://%s/game", addr)
	log.Printf("Health check: http://%s/health", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	log.Println("game server stopped")
}

// openRepository picks the durable MongoRepository or the in-memory
// MapRepository per config, returning a repository satisfying every
// port (GameRepository, LobbyRepository, QueueRepository) plus a
// close func safe to defer unconditionally.
func openRepository(ctx context.Context, cfg *config.Config) (gameServerRepository, func()) {
	if !cfg.UseMongo {
		log.Println("persisting to in-memory store (set -use-mongo to persist to MongoDB)")
		return repository.NewMapRepository(), func() {}
	}

	store, err := repository.NewStore(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	return repository.NewMongoRepository(store), func() { store.Close(context.Background()) }
}

// gameServerRepository is the union of every port a repository
// implementation must satisfy to back this server.
type gameServerRepository interface {
	ports.GameRepository
	ports.LobbyRepository
	ports.QueueRepository
}

// sampleActiveCounts periodically refreshes the games-active and
// lobbies-active gauges, which (unlike connection and order counters)
// have no single call site to increment/decrement from.
func sampleActiveCounts(ctx context.Context, games *service.GameService, lobbies *service.LobbyService) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := games.ActiveCount(ctx); err == nil {
				metrics.SetGamesActive(n)
			}
			if n, err := lobbies.ActiveCount(ctx); err == nil {
				metrics.SetLobbiesActive(n)
			}
		}
	}
}

func serveMetrics(host string, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("metrics listening on http://%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server error: %v", err)
	}
}
