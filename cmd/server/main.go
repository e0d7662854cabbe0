package main // seat allocation service entry point

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/database"
	"github.com/iliyamo/seat-allocation/internal/handler"
	"github.com/iliyamo/seat-allocation/internal/layout"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/repository"
	"github.com/iliyamo/seat-allocation/internal/router"
	"github.com/iliyamo/seat-allocation/internal/session"
	"github.com/iliyamo/seat-allocation/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	registry := store.NewRegistry()
	var showtimeRepo *repository.ShowtimeRepo
	var seatRepo *repository.SeatRepo
	if cfg.DBHost != "" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("connecting to database: %v", err)
		}
		showtimeRepo = repository.NewShowtimeRepo(db)
		seatRepo = repository.NewSeatRepo(db)
		if err := loadShowtimes(registry, showtimeRepo, seatRepo, cfg); err != nil {
			log.Fatalf("loading showtimes: %v", err)
		}
	}
	if len(registry.All()) == 0 {
		provisionDemoShowtime(registry, cfg)
	}

	sessions := session.NewManager(registry, cfg.HoldTTL, cfg.MaxSeats, nil)

	// Background expiry: the sweep releases lapsed holds and the
	// purge drops their sessions.  Hold/Confirm additionally sweep
	// lazily, so this interval only bounds how long a dead hold can
	// linger, not correctness.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.StartSweeper(ctx, registry, cfg.SweepInterval)
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.PurgeExpired(); n > 0 {
					log.Printf("purged %d expired sessions", n)
				}
			}
		}
	}()
	go func() {
		if err := queue.StartConfirmedConsumer(); err != nil {
			log.Printf("confirmed consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	h := handler.NewBookingHandler(registry, sessions, showtimeRepo, seatRepo, cfg.JWTSecret)

	e := echo.New()
	router.RegisterRoutes(e, h, rlCfg, rdb)
	router.RegisterSession(e, h, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, showtimes=%d)", addr, cfg.Env, len(registry.All()))
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// loadShowtimes seeds the registry from the database: each showtime's
// authoritative seats are fetched, built into a grid, and wrapped in a
// reservation store seeded with the persisted OCCUPIED and MAINTENANCE
// seats.
func loadShowtimes(reg *store.Registry, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo, cfg config.Config) error {
	ctx := context.Background()
	ids, err := showtimes.ListIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		st, err := showtimes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		authoritative, err := seats.GetByShowtime(ctx, id)
		if err != nil {
			return err
		}
		g, err := layout.Build(st.Layout(), authoritative)
		if err != nil {
			return err
		}
		reg.Put(id, g, store.NewFromGrid(g, cfg.HoldTTL, nil))
		log.Printf("loaded showtime %d (%s): %d seats", id, st.HallName, len(g.Seats()))
	}
	return nil
}

// provisionDemoShowtime generates a synthetic showtime so the service
// is usable without a database.  The random occupancy is seeded from
// configuration, making demo grids reproducible.
func provisionDemoShowtime(reg *store.Registry, cfg config.Config) {
	const demoID = 1
	seed := cfg.DemoSeed
	if seed == 0 {
		seed = demoID
	}
	l := model.Layout{RowCount: 8, SeatsPerRow: []int{10, 10, 12, 12, 12, 12, 10, 10}}
	g, err := layout.Generate(l, layout.DefaultPrices(), rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatalf("generating demo grid: %v", err)
	}
	reg.Put(demoID, g, store.NewFromGrid(g, cfg.HoldTTL, nil))
	log.Printf("provisioned demo showtime %d: %d seats", demoID, len(g.Seats()))
}
