package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/spf13/pflag"

	"github.com/neomorfeo/airdesk/internal/adapter/fsm"
	"github.com/neomorfeo/airdesk/internal/adapter/memory"
	telemetry "github.com/neomorfeo/airdesk/internal/adapter/otel"
	jobs "github.com/neomorfeo/airdesk/internal/adapter/river"
	"github.com/neomorfeo/airdesk/internal/adapter/sqlite"
	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"

	handler "github.com/neomorfeo/airdesk/internal/adapter/http"
)

const serviceName = "airdesk"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

type config struct {
	port         string
	databasePath string
	store        string
	registryPath string
	workers      int
}

// loadConfig reads the environment, then lets command-line flags override it.
func loadConfig(args []string) (config, error) {
	workers, err := strconv.Atoi(envOrDefault("RIVER_WORKERS", strconv.Itoa(jobs.DefaultMaxWorkers)))
	if err != nil {
		return config{}, fmt.Errorf("RIVER_WORKERS: %w", err)
	}
	cfg := config{
		port:         envOrDefault("PORT", "8080"),
		databasePath: envOrDefault("DATABASE_PATH", "airdesk.db"),
		store:        envOrDefault("STORE", "sqlite"),
		registryPath: os.Getenv("REGISTRY_PATH"),
		workers:      workers,
	}

	flagSet := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.port, "port", "p", cfg.port, "HTTP listen port")
	flagSet.StringVar(&cfg.databasePath, "database", cfg.databasePath, "SQLite database file")
	flagSet.StringVar(&cfg.store, "store", cfg.store, `storage backend: "sqlite" or "memory"`)
	flagSet.StringVar(&cfg.registryPath, "registries", cfg.registryPath, "YAML file replacing the built-in seat class, currency and passport registries")
	flagSet.IntVar(&cfg.workers, "workers", cfg.workers, "concurrent event workers")
	if err := flagSet.Parse(args); err != nil {
		return config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	switch cfg.store {
	case "sqlite", "memory":
	default:
		return config{}, fmt.Errorf("unsupported store %q (use \"sqlite\" or \"memory\")", cfg.store)
	}
	return cfg, nil
}

func loadRegistries(path string) (*vo.Registries, error) {
	if path == "" {
		return vo.DefaultRegistries(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registries: %w", err)
	}
	defer f.Close()

	reg, err := vo.LoadRegistries(f)
	if err != nil {
		return nil, fmt.Errorf("loading registries from %s: %w", path, err)
	}
	return reg, nil
}

type repositories struct {
	aircraft   domain.AircraftRepository
	flights    domain.FlightRepository
	passengers domain.PassengerRepository
	tickets    domain.TicketRepository
}

func (r repositories) traced() repositories {
	return repositories{
		aircraft:   telemetry.NewTracingAircraftRepository(r.aircraft),
		flights:    telemetry.NewTracingFlightRepository(r.flights),
		passengers: telemetry.NewTracingPassengerRepository(r.passengers),
		tickets:    telemetry.NewTracingTicketRepository(r.tickets),
	}
}

func newServices(repos repositories, publisher domain.EventPublisher, reg *vo.Registries) handler.Services {
	inventory := app.NewSeatInventory(repos.aircraft, repos.flights)
	tickets := app.NewTicketService(repos.tickets, repos.flights, repos.passengers, inventory, fsm.NewTicket(), publisher, reg)
	return handler.Services{
		Aircraft:   app.NewAircraftService(repos.aircraft, inventory, reg),
		Flights:    app.NewFlightService(repos.flights, repos.aircraft, tickets, inventory, fsm.NewFlight(), publisher, reg),
		Passengers: app.NewPassengerService(repos.passengers, repos.tickets, reg),
		Tickets:    tickets,
		Registries: reg,
	}
}

func newRouter(svc handler.Services) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig(serviceName, "0.1.0"))
	handler.Register(api, svc)
	return router
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	reg, err := loadRegistries(cfg.registryPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	providers, err := telemetry.Setup(ctx, telemetry.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// --- Adapters (out) ---
	var (
		repos     repositories
		publisher domain.EventPublisher
	)
	switch cfg.store {
	case "memory":
		s := memory.New()
		repos = repositories{s.Aircraft(), s.Flights(), s.Passengers(), s.Tickets()}
		publisher = logPublisher{}
		log.Println("using in-memory store; data is lost on exit")
	default:
		db, err := telemetry.OpenDB(cfg.databasePath)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		store, err := sqlite.NewFromDB(db, reg)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("database: %w", err)
		}
		defer store.Close()

		client, err := jobs.Setup(ctx, store.DB(), cfg.workers)
		if err != nil {
			return fmt.Errorf("river: %w", err)
		}
		if err := client.Start(ctx); err != nil {
			return fmt.Errorf("starting river: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Stop(stopCtx); err != nil {
				log.Printf("river stop: %v", err)
			}
		}()

		repos = repositories{store.Aircraft(), store.Flights(), store.Passengers(), store.Tickets()}
		publisher = jobs.NewPublisher(client)
	}

	// --- Application + adapters (in) ---
	svc := newServices(repos.traced(), telemetry.NewTracingPublisher(publisher), reg)
	srv := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           newRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.port)
		log.Printf("API docs: http://localhost:%s/docs", cfg.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// logPublisher reports events to the log when no job queue is running.
type logPublisher struct{}

func (logPublisher) Publish(ctx context.Context, event domain.Event) error {
	slog.InfoContext(ctx, "domain event",
		"kind", event.Kind,
		"flight_id", event.FlightID,
		"ticket_id", event.TicketID,
		"status", event.Status,
	)
	return nil
}
