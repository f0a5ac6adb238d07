package port

import (
	"context"

	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
)

// FrameFunc receives each sampled frame in temporal order. Returning an
// error stops the sampler.
type FrameFunc func(frame entity.Frame) error

// FrameSampler decodes every stride-th frame of a video and hands it to fn.
// It returns the number of frames delivered. A non-nil error after a
// positive count means the stream failed mid-way; the delivered frames
// stand (truncated sampling).
type FrameSampler interface {
	SampleFrames(ctx context.Context, info *entity.VideoInfo, stride int, fn FrameFunc) (int, error)
}
