// Package queue encola y procesa tareas de mantenimiento con asynq (Redis).
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Tipos de tarea.
const (
	TypeSalesSweep = "sales:sweep"
)

// QueueMaintenance cola de tareas de mantenimiento.
const QueueMaintenance = "maintenance"

// SweepPayload datos de la tarea de barrido.
type SweepPayload struct {
	DryRun      bool      `json:"dry_run"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewSweepTask construye la tarea de barrido de ventas.
func NewSweepTask(dryRun bool) (*asynq.Task, error) {
	b, err := json.Marshal(SweepPayload{DryRun: dryRun, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("queue: payload: %w", err)
	}
	return asynq.NewTask(TypeSalesSweep, b), nil
}
