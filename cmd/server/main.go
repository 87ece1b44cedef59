package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "smart-cv-generator/internal/adapter/http"
	"smart-cv-generator/internal/adapter/events"
	repo "smart-cv-generator/internal/adapter/repository"
	"smart-cv-generator/internal/config"
	"smart-cv-generator/internal/infrastructure/migration"
	"smart-cv-generator/internal/model"
	"smart-cv-generator/internal/usecase"
	infra "smart-cv-generator/pkg/infrastructure"
	"smart-cv-generator/pkg/logger"
	"smart-cv-generator/pkg/secrets"
	"smart-cv-generator/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.NewConsole()
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := secrets.NewResolver()
	if err := resolver.ResolveAll(ctx, &cfg.DatabaseURL, &cfg.AMQPURL, &cfg.S3AccessKey, &cfg.S3SecretKey); err != nil {
		log.Fatal().Err(err).Msg("resolve secrets")
	}
	_ = resolver.Close()

	templates, err := usecase.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.TemplatesDir).Msg("load templates")
	}
	validator, err := model.LoadValidator(cfg.TemplatesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load form schema")
	}

	opts := []usecase.Option{usecase.WithTempDir(cfg.TempDir), usecase.WithLogger(log)}

	// infra setup; history, archive and events are optional
	pool, err := infra.NewGenerationsPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("generations DB not available")
	}
	if pool != nil {
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		opts = append(opts, usecase.WithRepo(repo.NewGenerationsRepo(pool)))
	}

	archive, err := storage.New(ctx, cfg.ArchiveBackend, cfg.ArchiveDir, storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
		Region:    cfg.AWSRegion,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ArchiveBackend).Msg("init archive")
	}
	if archive != nil {
		opts = append(opts, usecase.WithArchive(archive))
	}

	publisher, err := events.New(ctx, events.Options{
		Backend:      cfg.EventsBackend,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		GCPProjectID: cfg.GCPProjectID,
		PubSubTopic:  cfg.PubSubTopic,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.EventsBackend).Msg("init events")
	}
	if publisher != nil {
		defer publisher.Close()
		opts = append(opts, usecase.WithPublisher(publisher))
	}

	renderer := infra.NewChromedpRenderer(infra.RendererOptions{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.RenderTimeout,
		AssetDir:   cfg.StaticDir,
		Assets:     []string{"cv.css"},
	})
	gen := usecase.NewGenerator(templates, renderer, infra.NewPDFInspector(), opts...)

	h := httpadapter.NewHandler(gen, validator, log)
	app := httpadapter.NewApp(h, cfg.StaticDir, log)

	go func() {
		log.Info().Str("port", cfg.Port).
			Str("archive", cfg.ArchiveBackend).
			Str("events", cfg.EventsBackend).
			Bool("history", pool != nil).
			Msg("server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
