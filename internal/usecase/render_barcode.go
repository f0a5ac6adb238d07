package usecase

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/BenySynakiewicz/Color-Bars/internal/barcode"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/port"
	"github.com/BenySynakiewicz/Color-Bars/internal/infra/ffmpeg"
)

type RenderBarcodeUseCase struct {
	prober  port.VideoProber
	sampler port.FrameSampler
	writer  port.ImageWriter
	logger  *zap.Logger
	cfg     RenderConfig
}

type RenderConfig struct {
	Width       int
	Height      int
	OutputDir   string
	Mode        barcode.Mode
	Orientation barcode.Orientation
	Variants    bool
	Force       bool
	Quiet       bool
	Timeout     time.Duration
}

// targetStrips is the number of samples wanted: one per output column for
// vertical strips, one per output row for horizontal ones.
func (cfg RenderConfig) targetStrips() int {
	if cfg.Orientation == barcode.Horizontal {
		return cfg.Height
	}
	return cfg.Width
}

func NewRenderBarcodeUseCase(
	prober port.VideoProber,
	sampler port.FrameSampler,
	writer port.ImageWriter,
	logger *zap.Logger,
	cfg RenderConfig,
) *RenderBarcodeUseCase {
	return &RenderBarcodeUseCase{
		prober:  prober,
		sampler: sampler,
		writer:  writer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Execute renders barcodes for every input path in order. Each file is
// processed on its own; a failing file never stops the batch.
func (uc *RenderBarcodeUseCase) Execute(ctx context.Context, inputs []string) []*entity.Job {
	if err := os.MkdirAll(uc.cfg.OutputDir, 0755); err != nil {
		uc.logger.Error("cannot create output directory", zap.String("dir", uc.cfg.OutputDir), zap.Error(err))
		return nil
	}

	jobs := make([]*entity.Job, 0, len(inputs))
	for _, path := range inputs {
		job := entity.NewJob(path)
		uc.renderOne(ctx, job)
		jobs = append(jobs, job)
	}
	return jobs
}

func (uc *RenderBarcodeUseCase) renderOne(ctx context.Context, job *entity.Job) {
	log := uc.logger.With(zap.String("job_id", job.ID.String()), zap.String("video", job.VideoPath))

	paths := uc.outputPaths(job.VideoPath)
	if !uc.cfg.Force {
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				log.Warn("output already exists, skipping (use --force to overwrite)", zap.String("output", p))
				job.MarkSkipped("output exists: " + p)
				return
			}
		}
	}

	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	info, err := uc.prober.Probe(ctx, job.VideoPath)
	if err != nil {
		log.Warn("cannot open video, skipping", zap.Error(err))
		job.MarkSkipped("open failure: " + err.Error())
		return
	}

	job.MarkProcessing()

	stride := ffmpeg.Stride(info.FrameCount, uc.cfg.targetStrips())
	expected := uc.cfg.targetStrips()
	if info.FrameCount > 0 && info.FrameCount/stride < expected {
		expected = info.FrameCount / stride
	}

	stripLength := info.Height
	if uc.cfg.Orientation == barcode.Horizontal {
		stripLength = info.Width
	}

	bar := uc.newProgressBar(expected, info)
	comp := barcode.NewCompositor(uc.cfg.Orientation, stripLength, expected)

	start := time.Now()
	sampled, sampleErr := uc.sampler.SampleFrames(ctx, info, stride, func(frame entity.Frame) error {
		if err := comp.Append(barcode.ReduceStrip(frame, uc.cfg.Mode, uc.cfg.Orientation)); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
		return nil
	})
	if bar != nil {
		bar.Finish()
	}

	if sampled == 0 {
		if sampleErr == nil {
			sampleErr = fmt.Errorf("no frames decoded")
		}
		log.Warn("decoding produced no frames, skipping", zap.Error(sampleErr))
		job.MarkFailed("decode failure: " + sampleErr.Error())
		return
	}
	if sampleErr != nil {
		log.Warn("decoding stopped early, writing truncated barcode",
			zap.Int("strips", sampled), zap.Error(sampleErr))
	}

	written, werr := uc.writeImages(ctx, comp.Image(), paths)
	if werr != nil {
		log.Warn("cannot write output, result lost", zap.Error(werr))
		job.MarkFailed("write failure: " + werr.Error())
		return
	}

	if sampleErr != nil {
		job.MarkTruncated(written, sampled, sampleErr.Error())
	} else {
		job.MarkCompleted(written, sampled)
	}

	log.Info("barcode rendered",
		zap.Int("strips", sampled),
		zap.Strings("outputs", written),
		zap.Duration("took", time.Since(start).Round(time.Millisecond)),
	)
}

// writeImages renders the final canvas plus the optional variants and saves
// each one.
func (uc *RenderBarcodeUseCase) writeImages(ctx context.Context, composite image.Image, paths []string) ([]string, error) {
	columns := barcode.Columns(composite, uc.cfg.Width, uc.cfg.Height)

	images := []image.Image{columns}
	if uc.cfg.Variants {
		images = append(images,
			barcode.Blurred(columns, uc.cfg.Width, uc.cfg.Height, uc.cfg.Orientation),
			barcode.Solid(columns, uc.cfg.Width, uc.cfg.Height, uc.cfg.Orientation),
		)
	}

	var written []string
	for i, img := range images {
		if err := uc.writer.WriteImage(ctx, img, paths[i]); err != nil {
			return written, err
		}
		written = append(written, paths[i])
	}
	return written, nil
}

// outputPaths derives the destination files from the input basename:
// "<stem>.png" plus the variant names when enabled.
func (uc *RenderBarcodeUseCase) outputPaths(videoPath string) []string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	paths := []string{filepath.Join(uc.cfg.OutputDir, stem+".png")}
	if uc.cfg.Variants {
		paths = append(paths,
			filepath.Join(uc.cfg.OutputDir, stem+" (blurred).png"),
			filepath.Join(uc.cfg.OutputDir, stem+" (solid).png"),
		)
	}
	return paths
}

func (uc *RenderBarcodeUseCase) newProgressBar(expected int, info *entity.VideoInfo) *progressbar.ProgressBar {
	if uc.cfg.Quiet {
		return nil
	}
	total := int64(expected)
	if info.FrameCount == 0 {
		total = -1 // unknown length, spinner
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(filepath.Base(info.Path)),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("strips"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
}
