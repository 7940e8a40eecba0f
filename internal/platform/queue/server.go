package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"business-visa-backend/internal/common/logger"
)

// Server runs task handlers registered on its mux.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(opt asynq.RedisConnOpt, concurrency int) *Server {
	log := logger.With("queue")
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error().
				Err(err).
				Str("type", task.Type()).
				Int("retry", retried).
				Int("max_retry", maxRetry).
				Msg("Task failed")
		}),
		Logger: asynqLogger{},
	})
	return &Server{srv: srv, mux: asynq.NewServeMux()}
}

func (s *Server) Handle(topic string, h asynq.Handler) {
	s.mux.Handle(topic, h)
}

// Run blocks until ctx is done, then drains in-flight tasks.
func (s *Server) Run(ctx context.Context) error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start queue server: %w", err)
	}
	<-ctx.Done()
	s.srv.Shutdown()
	return nil
}

// asynqLogger routes asynq's own logs through zerolog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Info().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Error().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Fatal().Msg(fmt.Sprint(args...)) }
