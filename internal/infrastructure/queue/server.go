package queue

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gimnasio-api/pkg/config"
)

// RedisOpt opciones de conexión de asynq a partir de la configuración de Redis.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewServer construye el servidor del worker. Solo atiende la cola de mantenimiento.
func NewServer(cfg config.RedisConfig, concurrency int, log zerolog.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 1
	}
	l := log.With().Str("component", "asynq").Logger()
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueMaintenance: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			l.Error().Err(err).Str("type", task.Type()).Bytes("payload", task.Payload()).Msg("falló el procesamiento de la tarea")
		}),
		RetryDelayFunc:  ExponentialBackoff,
		ShutdownTimeout: 30 * time.Second,
		HealthCheckFunc: func(err error) {
			if err != nil {
				l.Error().Err(err).Msg("health check del worker")
			}
		},
		Logger: &asynqLogger{log: l},
	})
}

// ExponentialBackoff 1s, 2s, 4s... con tope de 10 minutos.
func ExponentialBackoff(n int, _ error, _ *asynq.Task) time.Duration {
	const maxDelay = 10 * time.Minute
	if n < 0 {
		n = 0
	}
	if n > 20 {
		return maxDelay
	}
	delay := time.Second * time.Duration(1<<uint(n))
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// asynqLogger adapta zerolog a asynq.Logger.
type asynqLogger struct {
	log zerolog.Logger
}

func (l *asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...any) {
	l.log.Error().Msg(fmt.Sprint(args...))
	os.Exit(1)
}
