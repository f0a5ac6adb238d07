package port

import (
	"context"

	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
)

type VideoProber interface {
	Probe(ctx context.Context, videoPath string) (*entity.VideoInfo, error)
}
