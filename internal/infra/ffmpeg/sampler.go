package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"

	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/port"
)

type Sampler struct {
	ffmpegPath string
	logger     *zap.Logger
}

func NewSampler(ffmpegPath string, logger *zap.Logger) *Sampler {
	return &Sampler{ffmpegPath: ffmpegPath, logger: logger}
}

// Stride is the frame interval between samples: one strip per stride
// frames, never below 1.
func Stride(totalFrames, targetStrips int) int {
	if targetStrips < 1 {
		return 1
	}
	stride := totalFrames / targetStrips
	if stride < 1 {
		return 1
	}
	return stride
}

// SampleFrames decodes every stride-th frame to packed RGB24 on a pipe and
// feeds each one to fn in temporal order. The frame buffer is reused
// between calls; fn must not retain it.
func (s *Sampler) SampleFrames(ctx context.Context, info *entity.VideoInfo, stride int, fn port.FrameFunc) (int, error) {
	args := []string{"-i", info.Path}
	if stride > 1 {
		args = append(args,
			"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", stride),
			"-vsync", "vfr")
	}
	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-v", "error",
		"pipe:1")

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("create pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	frameSize := info.Width * info.Height * 3
	reader := bufio.NewReaderSize(stdout, frameSize)
	frameBuf := make([]byte, frameSize)

	sampled := 0
	var readErr error
	for {
		if _, err := io.ReadFull(reader, frameBuf); err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = fmt.Errorf("read frame: %w", err)
			}
			break
		}
		frame := entity.Frame{
			Pix:    frameBuf,
			Width:  info.Width,
			Height: info.Height,
			Index:  sampled * stride,
		}
		if err := fn(frame); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			return sampled, err
		}
		sampled++
	}

	waitErr := cmd.Wait()
	if readErr != nil {
		return sampled, readErr
	}
	if waitErr != nil {
		if ctx.Err() != nil {
			return sampled, fmt.Errorf("decode interrupted: %w", ctx.Err())
		}
		// Decoder exited non-zero; frames read so far are still good.
		s.logger.Warn("ffmpeg exited with error", zap.String("path", info.Path), zap.Error(waitErr))
		return sampled, fmt.Errorf("ffmpeg: %w", waitErr)
	}
	return sampled, nil
}
