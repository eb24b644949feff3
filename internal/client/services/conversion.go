package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/progress"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// ConversionService uploads a video for conversion while the stage
// indicator runs.
type ConversionService interface {
	Convert(ctx context.Context, up api.Upload, onStep func(progress.Step)) (api.ConversionResult, error)
}

type conversionService struct {
	client   api.Client
	interval time.Duration
	log      logging.Logger
}

func NewConversionService(client api.Client, interval time.Duration, log logging.Logger) ConversionService {
	return &conversionService{client: client, interval: interval, log: log}
}

// Convert blocks until the upload settles. The stage indicator is stopped
// before Convert returns, on every path including a panic, so onStep is
// never called afterwards.
func (s *conversionService) Convert(ctx context.Context, up api.Upload, onStep func(progress.Step)) (api.ConversionResult, error) {
	run := progress.Start(ctx, s.interval, progress.Stages, onStep)
	defer run.Stop()

	start := time.Now()
	s.log.Info(ctx, "conversion started", "file", up.Name, "size", up.Size)

	res, err := s.client.Convert(ctx, up)
	if err != nil {
		s.log.Warn(ctx, "conversion failed", "file", up.Name, "duration", time.Since(start), "error", err)
		return api.ConversionResult{}, err
	}

	s.log.Info(ctx, "conversion finished", "file", up.Name, "id", res.ID, "duration", time.Since(start))
	return res, nil
}
