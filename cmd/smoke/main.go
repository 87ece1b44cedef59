// Command smoke renders one CV end to end with headless Chrome and writes the
// PDF into the working directory.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"smart-cv-generator/internal/config"
	"smart-cv-generator/internal/model"
	"smart-cv-generator/internal/usecase"
	"smart-cv-generator/pkg/infrastructure"
	"smart-cv-generator/pkg/logger"
)

func main() {
	log := logger.NewConsole()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	tpl, err := usecase.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load templates")
	}
	r := infrastructure.NewChromedpRenderer(infrastructure.RendererOptions{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.RenderTimeout,
		AssetDir:   cfg.StaticDir,
		Assets:     []string{"cv.css"},
	})
	gen := usecase.NewGenerator(tpl, r, infrastructure.NewPDFInspector(),
		usecase.WithTempDir(cfg.TempDir), usecase.WithLogger(log))

	rec := model.ResumeRecord{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		Skills:     "Go, SQL",
		Experience: "5 years backend",
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RenderTimeout+10*time.Second)
	defer cancel()

	f, err := gen.Generate(ctx, rec)
	if err != nil {
		log.Fatal().Err(err).Msg("generate")
	}
	src, err := f.Open()
	if err != nil {
		_ = f.Remove()
		log.Fatal().Err(err).Msg("open generated pdf")
	}
	defer src.Close()

	dst, err := os.Create(f.DownloadName)
	if err != nil {
		log.Fatal().Err(err).Msg("create output")
	}
	if _, err := io.Copy(dst, src); err != nil {
		log.Fatal().Err(err).Msg("copy pdf")
	}
	if err := dst.Close(); err != nil {
		log.Fatal().Err(err).Msg("close output")
	}
	log.Info().Str("file", f.DownloadName).Int("pages", f.Generation.Pages).Int64("bytes", f.Size).Msg("smoke render complete")
}
