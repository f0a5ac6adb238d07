package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/BenySynakiewicz/Color-Bars/internal/barcode"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
	"github.com/BenySynakiewicz/Color-Bars/internal/infra/config"
	"github.com/BenySynakiewicz/Color-Bars/internal/infra/ffmpeg"
	"github.com/BenySynakiewicz/Color-Bars/internal/infra/output"
	"github.com/BenySynakiewicz/Color-Bars/internal/resolver"
	"github.com/BenySynakiewicz/Color-Bars/internal/usecase"
	"github.com/BenySynakiewicz/Color-Bars/pkg/logger"
)

var version = "1.1"

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	app := &cli.Command{
		Name:      "colorbars",
		Version:   version,
		Usage:     "Create movie barcode images from video files",
		ArgsUsage: "<video or manifest.txt> [...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"x"},
				Usage:   "Output image width (also the target strip count)",
				Value:   int64(cfg.Width),
			},
			&cli.IntFlag{
				Name:    "height",
				Aliases: []string{"y"},
				Usage:   "Output image height",
				Value:   int64(cfg.Height),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (created if missing)",
				Value:   cfg.OutputDir,
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Strip reduction mode: resize or mean",
				Value: cfg.Mode,
			},
			&cli.StringFlag{
				Name:  "orientation",
				Usage: "Strip orientation: vertical or horizontal",
				Value: cfg.Orientation,
			},
			&cli.BoolFlag{
				Name:  "variants",
				Usage: "Also write the blurred and solid-color variants",
				Value: cfg.Variants,
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite existing output files",
				Value:   cfg.Force,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the progress bar",
				Value:   cfg.Quiet,
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Per-file decode timeout in seconds (0 = none)",
				Value: int64(cfg.TimeoutSeconds),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, cfg)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	width := int(cmd.Int("width"))
	height := int(cmd.Int("height"))
	if width < 1 || height < 1 {
		return cli.Exit(fmt.Sprintf("invalid output image dimensions: %dx%d", width, height), 1)
	}

	mode, err := barcode.ParseMode(cmd.String("mode"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	orient, err := barcode.ParseOrientation(cmd.String("orientation"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Args().Len() == 0 {
		cli.ShowAppHelp(cmd)
		return cli.Exit("no input files were given", 1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return cli.Exit("init logger: "+err.Error(), 1)
	}
	defer log.Sync()

	inputs := resolver.New(log).Resolve(cmd.Args().Slice())
	if len(inputs) == 0 {
		return cli.Exit("no usable input files were given", 1)
	}
	log.Info("inputs resolved", zap.Int("count", len(inputs)))

	uc := usecase.NewRenderBarcodeUseCase(
		ffmpeg.NewProber(cfg.FFprobePath),
		ffmpeg.NewSampler(cfg.FFmpegPath, log),
		output.NewWriter(),
		log,
		usecase.RenderConfig{
			Width:       width,
			Height:      height,
			OutputDir:   cmd.String("output"),
			Mode:        mode,
			Orientation: orient,
			Variants:    cmd.Bool("variants"),
			Force:       cmd.Bool("force"),
			Quiet:       cmd.Bool("quiet"),
			Timeout:     time.Duration(cmd.Int("timeout")) * time.Second,
		},
	)

	jobs := uc.Execute(ctx, inputs)
	summarize(log, jobs)

	// Best-effort batch: individual failures warn but never change the
	// exit status.
	return nil
}

func summarize(log *zap.Logger, jobs []*entity.Job) {
	counts := map[entity.JobStatus]int{}
	for _, j := range jobs {
		counts[j.Status]++
	}
	log.Info("batch finished",
		zap.Int("total", len(jobs)),
		zap.Int("completed", counts[entity.JobStatusCompleted]),
		zap.Int("truncated", counts[entity.JobStatusTruncated]),
		zap.Int("skipped", counts[entity.JobStatusSkipped]),
		zap.Int("failed", counts[entity.JobStatusFailed]),
	)
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
