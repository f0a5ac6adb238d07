package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BenySynakiewicz/Color-Bars/internal/barcode"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
	"github.com/BenySynakiewicz/Color-Bars/internal/domain/port"
)

type fakeProber struct {
	infos  map[string]*entity.VideoInfo
	errors map[string]error
}

func (p *fakeProber) Probe(_ context.Context, videoPath string) (*entity.VideoInfo, error) {
	if err := p.errors[videoPath]; err != nil {
		return nil, err
	}
	info, ok := p.infos[videoPath]
	if !ok {
		return nil, fmt.Errorf("no such video: %s", videoPath)
	}
	return info, nil
}

// sampleScript controls what the fake sampler emits for one video.
type sampleScript struct {
	frames    int
	failAfter int // fail with err after this many frames; -1 disables
	err       error
}

type fakeSampler struct {
	scripts map[string]sampleScript
}

func (s *fakeSampler) SampleFrames(_ context.Context, info *entity.VideoInfo, stride int, fn port.FrameFunc) (int, error) {
	sc := s.scripts[info.Path]
	delivered := 0
	for i := 0; i < sc.frames; i++ {
		if sc.failAfter >= 0 && delivered == sc.failAfter {
			return delivered, sc.err
		}
		pix := make([]byte, info.Width*info.Height*3)
		for p := 0; p < len(pix); p += 3 {
			pix[p] = byte(i * 25) // encode sample order in the red channel
		}
		frame := entity.Frame{Pix: pix, Width: info.Width, Height: info.Height, Index: i * stride}
		if err := fn(frame); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}

type memWriter struct {
	images map[string]image.Image
	failOn string
}

func (w *memWriter) WriteImage(_ context.Context, img image.Image, destPath string) error {
	if destPath == w.failOn {
		return errors.New("permission denied")
	}
	if w.images == nil {
		w.images = map[string]image.Image{}
	}
	w.images[destPath] = img
	return nil
}

func testInfo(path string, frameCount int) *entity.VideoInfo {
	return &entity.VideoInfo{Path: path, Width: 4, Height: 3, FrameCount: frameCount, FPS: 30}
}

func newTestUseCase(prober *fakeProber, sampler *fakeSampler, writer *memWriter, cfg RenderConfig) *RenderBarcodeUseCase {
	if cfg.Mode == "" {
		cfg.Mode = barcode.ModeMean
	}
	cfg.Quiet = true
	return NewRenderBarcodeUseCase(prober, sampler, writer, zap.NewNop(), cfg)
}

func TestExecuteRendersBarcode(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"a.mp4": testInfo("a.mp4", 30)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"a.mp4": {frames: 10, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"a.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusCompleted, jobs[0].Status)
	assert.Equal(t, 10, jobs[0].StripCount)

	out, ok := writer.images[filepath.Join(dir, "a.png")].(*image.NRGBA)
	require.True(t, ok, "barcode image not written")
	require.Equal(t, 10, out.Bounds().Dx())
	require.Equal(t, 3, out.Bounds().Dy())

	// Strip order follows sampling order: red channel encodes the sample
	// index and the composite maps 1:1 onto the output canvas here.
	for x := 0; x < 10; x++ {
		i := out.PixOffset(x, 1)
		assert.InDelta(t, byte(x*25), out.Pix[i], 1, "column %d", x)
	}
}

func TestExecuteIsolatesOpenFailures(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{
		infos:  map[string]*entity.VideoInfo{"good.mp4": testInfo("good.mp4", 30)},
		errors: map[string]error{"bad.mp4": errors.New("moov atom not found")},
	}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"good.mp4": {frames: 10, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"bad.mp4", "good.mp4"})

	require.Len(t, jobs, 2)
	assert.Equal(t, entity.JobStatusSkipped, jobs[0].Status)
	assert.Equal(t, entity.JobStatusCompleted, jobs[1].Status)
	assert.Contains(t, writer.images, filepath.Join(dir, "good.png"))
	assert.NotContains(t, writer.images, filepath.Join(dir, "bad.png"))
}

func TestExecuteWritesTruncatedBarcode(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"corrupt.mp4": testInfo("corrupt.mp4", 300)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{
		"corrupt.mp4": {frames: 100, failAfter: 50, err: errors.New("invalid NAL unit")},
	}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 100, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"corrupt.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusTruncated, jobs[0].Status)
	assert.Equal(t, 50, jobs[0].StripCount)
	assert.True(t, jobs[0].Wrote())
	assert.Contains(t, writer.images, filepath.Join(dir, "corrupt.png"))
}

func TestExecuteFailsJobOnWriteError(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{
		"a.mp4": testInfo("a.mp4", 30),
		"b.mp4": testInfo("b.mp4", 30),
	}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{
		"a.mp4": {frames: 10, failAfter: -1},
		"b.mp4": {frames: 10, failAfter: -1},
	}}
	writer := &memWriter{failOn: filepath.Join(dir, "a.png")}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"a.mp4", "b.mp4"})

	require.Len(t, jobs, 2)
	assert.Equal(t, entity.JobStatusFailed, jobs[0].Status)
	assert.Equal(t, entity.JobStatusCompleted, jobs[1].Status)
}

func TestExecuteSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("old"), 0644))

	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"a.mp4": testInfo("a.mp4", 30)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"a.mp4": {frames: 10, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"a.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusSkipped, jobs[0].Status)
	assert.Empty(t, writer.images)

	// --force overwrites instead.
	uc = newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir, Force: true})
	jobs = uc.Execute(context.Background(), []string{"a.mp4"})
	assert.Equal(t, entity.JobStatusCompleted, jobs[0].Status)
	assert.Contains(t, writer.images, filepath.Join(dir, "a.png"))
}

func TestExecuteWritesVariants(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"a.mp4": testInfo("a.mp4", 30)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"a.mp4": {frames: 10, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 6, OutputDir: dir, Variants: true})
	jobs := uc.Execute(context.Background(), []string{"a.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusCompleted, jobs[0].Status)
	assert.Contains(t, writer.images, filepath.Join(dir, "a.png"))
	assert.Contains(t, writer.images, filepath.Join(dir, "a (blurred).png"))
	assert.Contains(t, writer.images, filepath.Join(dir, "a (solid).png"))
}

func TestExecuteHorizontalOrientation(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"a.mp4": testInfo("a.mp4", 30)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"a.mp4": {frames: 10, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{
		Width: 4, Height: 10, OutputDir: dir, Orientation: barcode.Horizontal,
	})
	jobs := uc.Execute(context.Background(), []string{"a.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusCompleted, jobs[0].Status)
	// Horizontal strips stack along y: height is the strip count.
	assert.Equal(t, 10, jobs[0].StripCount)

	out, ok := writer.images[filepath.Join(dir, "a.png")].(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, 4, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())

	for y := 0; y < 10; y++ {
		i := out.PixOffset(2, y)
		assert.InDelta(t, byte(y*25), out.Pix[i], 1, "row %d", y)
	}
}

func TestExecuteFailsJobWhenNothingDecodes(t *testing.T) {
	dir := t.TempDir()
	prober := &fakeProber{infos: map[string]*entity.VideoInfo{"empty.mp4": testInfo("empty.mp4", 0)}}
	sampler := &fakeSampler{scripts: map[string]sampleScript{"empty.mp4": {frames: 0, failAfter: -1}}}
	writer := &memWriter{}

	uc := newTestUseCase(prober, sampler, writer, RenderConfig{Width: 10, Height: 3, OutputDir: dir})
	jobs := uc.Execute(context.Background(), []string{"empty.mp4"})

	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStatusFailed, jobs[0].Status)
	assert.Empty(t, writer.images)
}
