package worker

import (
	"context"
	"errors"
	"fmt"

	"ezelectronics/internal/config"
	"ezelectronics/internal/queue"
	"github.com/hibiken/asynq"
)

// Service runs the asynq server for the cart consumer.
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

// Run processes tasks until ctx is cancelled, then drains in-flight work.
func (s *Service) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
