package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vowcraft/internal/audit"
	httpapi "vowcraft/internal/http"
	"vowcraft/internal/identity"
	"vowcraft/internal/jwttoken"
	migrationexec "vowcraft/internal/migration/executor"
	migrationhandler "vowcraft/internal/migration/handler"
	migrationledger "vowcraft/internal/migration/ledger"
	migrationmetrics "vowcraft/internal/migration/metrics"
	migrationservice "vowcraft/internal/migration/service"
	"vowcraft/internal/platform/config"
	"vowcraft/internal/platform/httpserver"
	"vowcraft/internal/platform/logger"
	"vowcraft/internal/platform/postgres"
	"vowcraft/internal/platform/redis"
	"vowcraft/internal/speech"
	speechhandler "vowcraft/internal/speech/handler"
	speechservice "vowcraft/internal/speech/service"
	"vowcraft/internal/user"
	userhandler "vowcraft/internal/user/handler"
	userservice "vowcraft/internal/user/service"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db == nil {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	} else {
		defer db.Close()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores: Postgres and Redis in production, memory fallbacks for dev.
	var (
		speechStore speech.Store
		records     identity.Records
		userStore   user.Store
		ledgerStore migrationledger.Store
		exec        migrationexec.Executor
	)
	if db != nil {
		speechStore = speech.NewPostgres(db)
		records = identity.NewPostgresRecords(db)
		userStore = user.NewPostgres(db)
		exec = migrationexec.NewPostgres(db)
	} else {
		memSpeeches := speech.NewInMemoryStore()
		memRecords := identity.NewInMemoryRecords()
		speechStore = memSpeeches
		records = memRecords
		userStore = user.NewInMemoryStore()
		exec = migrationexec.NewStore(memSpeeches, memRecords)
	}
	if redisClient != nil {
		ledgerStore = migrationledger.NewRedis(redisClient.Client, migrationledger.WithTTL(cfg.LedgerTTL))
	} else {
		ledgerStore = migrationledger.NewMemoryStore()
	}

	// Audit pipeline: Kafka when brokers are configured, logs otherwise.
	// Events go through a channel so the broker stays off the request path.
	var sink audit.Sink = audit.NewLogSink(log)
	var kafkaSink *audit.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	inbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(sink, inbox, log)
	publisher := audit.NewPublisher(audit.NewChannelSink(inbox), log)

	tokenService := jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	speechSvc, err := speechservice.New(speechStore, records, speechservice.WithLogger(log))
	if err != nil {
		log.Error("speech service init failed", "error", err)
		os.Exit(1)
	}

	emitter := migrationservice.NewEventEmitter(migrationmetrics.New(), publisher)
	migrationSvc, err := migrationservice.New(exec, ledgerStore,
		migrationservice.WithLogger(log),
		migrationservice.WithEmitter(emitter),
	)
	if err != nil {
		log.Error("migration service init failed", "error", err)
		os.Exit(1)
	}

	userSvc, err := userservice.New(userStore,
		userservice.WithLogger(log),
		userservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("user service init failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:        log,
		TokenService:  tokenService,
		CookieCodec:   identity.NewCodec(cfg.AnonCookieKey),
		CookieMaxAge:  int(cfg.AnonCookieTTL.Seconds()),
		SecureCookies: cfg.SecureCookies,
		Public: []httpapi.Registrar{
			speechhandler.New(speechSvc, log),
		},
		Protected: []httpapi.Registrar{
			migrationhandler.New(migrationSvc, log),
			userhandler.New(userSvc, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting vowcraft", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := auditWorker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := migrationSvc.RunJanitor(groupCtx, 10*time.Minute, cfg.LedgerTTL)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
