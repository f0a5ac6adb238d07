// Package ffmpeg drives the external ffmpeg/ffprobe binaries: probing
// stream metadata and decoding sampled frames as a raw RGB24 pipe.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
)

type Prober struct {
	ffprobePath string
}

func NewProber(ffprobePath string) *Prober {
	return &Prober{ffprobePath: ffprobePath}
}

type probeResult struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads width, height, frame count, frame rate and duration of the
// first video stream.
func (p *Prober) Probe(ctx context.Context, videoPath string) (*entity.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,nb_frames,avg_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeOutput(out, videoPath)
}

func parseProbeOutput(out []byte, videoPath string) (*entity.VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no video streams found")
	}

	s := probe.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("invalid stream dimensions %dx%d", s.Width, s.Height)
	}

	info := &entity.VideoInfo{
		Path:   videoPath,
		Width:  s.Width,
		Height: s.Height,
		FPS:    parseFrameRate(s.AvgFrameRate),
	}
	info.Duration, _ = strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	info.FrameCount, _ = strconv.Atoi(s.NbFrames)

	// Some containers omit nb_frames; estimate from duration and rate so
	// the sampler still gets a usable stride.
	if info.FrameCount == 0 && info.Duration > 0 && info.FPS > 0 {
		info.FrameCount = int(info.Duration * info.FPS)
	}

	return info, nil
}

// parseFrameRate handles ffprobe's rational rates such as "30000/1001".
func parseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
