package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Piyush-gour/legal-sathi/config"
	"github.com/Piyush-gour/legal-sathi/cron"
	"github.com/Piyush-gour/legal-sathi/db"
	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/notify"
	"github.com/Piyush-gour/legal-sathi/redis"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/Piyush-gour/legal-sathi/repository/memory"
	mongostore "github.com/Piyush-gour/legal-sathi/repository/mongo"
	"github.com/Piyush-gour/legal-sathi/repository/postgres"
	"github.com/Piyush-gour/legal-sathi/rooms"
	"github.com/Piyush-gour/legal-sathi/routes"
	"github.com/Piyush-gour/legal-sathi/scheduling"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/Piyush-gour/legal-sathi/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "legalsathi",
		Short: "LegalSathi legal consultation API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	var (
		cache   services.Cache
		limiter middleware.Allower
	)
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer client.Close()
		cache = redis.NewCache(client)
		limiter = redis.NewLimiter(client, cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		log.Warn().Msg("REDIS_URL not set, listing cache and rate limiting disabled")
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.MailEnabled() {
		mailer := notify.NewMailer(notify.MailerConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
		}, log)
		go mailer.Run(ctx)
		notifier = mailer
	} else {
		log.Warn().Msg("SMTP not configured, email notifications disabled")
	}

	var uploader utils.ImageUploader
	if cfg.CloudinaryEnabled() {
		cld, err := utils.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return err
		}
		uploader = cld
	} else {
		log.Warn().Msg("Cloudinary not configured, image uploads disabled")
	}

	loc := cfg.Location()
	ledger := scheduling.NewLedger(store)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	auth := services.NewAuthService(store, tokens, log)
	consultations := services.NewConsultationService(store, ledger, loc, log, services.WithNotifier(notifier))
	minter := rooms.NewMinter(rooms.Config{
		AccountSID: cfg.TwilioAccountSID,
		APIKey:     cfg.TwilioAPIKey,
		APISecret:  cfg.TwilioAPISecret,
		TTL:        cfg.RoomTokenTTL,
	})

	if err := auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	reminders := cron.NewReminders(consultations, notifier, log)
	scheduler, err := reminders.Start(cfg.ReminderCron)
	if err != nil {
		return fmt.Errorf("start reminder scheduler: %w", err)
	}
	defer scheduler.Stop()

	app := routes.NewApp(routes.Deps{
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Store:         store,
		Auth:          auth,
		Users:         services.NewUserService(store, log),
		Lawyers:       services.NewLawyerService(store, ledger, cache, loc, log),
		Consultations: consultations,
		Dashboards:    services.NewDashboardService(store),
		Rooms:         services.NewRoomService(consultations, minter),
		Uploader:      uploader,
		Limiter:       limiter,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
	return app.Listen(":" + cfg.Port)
}

func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env)
	ctx := context.Background()

	switch cfg.StoreDriver {
	case "postgres":
		gdb, err := db.Open(cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		return db.Migrate(gdb, log)
	case "mongo":
		client, mdb, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, log)
		if err != nil {
			return err
		}
		store := mongostore.New(client, mdb)
		defer store.Close()
		if err := store.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info().Msg("mongo indexes ensured")
		return nil
	}
	log.Info().Str("store", cfg.StoreDriver).Msg("nothing to migrate")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		gdb, err := db.Open(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return postgres.New(gdb), nil
	case "mongo":
		client, mdb, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, log)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, mdb)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return store, nil
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
