package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// sweepUniqueTTL evita encolar barridos repetidos mientras uno sigue pendiente.
const sweepUniqueTTL = 5 * time.Minute

// Scheduler publica tareas en la cola.
type Scheduler struct {
	client *asynq.Client
	log    zerolog.Logger
}

// NewScheduler construye el scheduler sobre un cliente asynq.
func NewScheduler(client *asynq.Client, log zerolog.Logger) *Scheduler {
	return &Scheduler{client: client, log: log.With().Str("component", "queue").Logger()}
}

// EnqueueSweep encola un barrido de ventas. Si ya hay uno pendiente no es error:
// devuelve taskID vacío.
func (s *Scheduler) EnqueueSweep(ctx context.Context, dryRun bool) (string, error) {
	task, err := NewSweepTask(dryRun)
	if err != nil {
		return "", err
	}
	info, err := s.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(5),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(sweepUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		s.log.Info().Bool("dry_run", dryRun).Msg("barrido ya encolado")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("queue: encolar %s: %w", TypeSalesSweep, err)
	}
	s.log.Info().Str("task_id", info.ID).Str("queue", info.Queue).Bool("dry_run", dryRun).Msg("barrido encolado")
	return info.ID, nil
}

// Close libera la conexión a Redis.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
