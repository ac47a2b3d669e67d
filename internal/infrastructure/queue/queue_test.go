package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gimnasio-api/internal/application/sales"
	"github.com/jhoicas/gimnasio-api/internal/domain"
	"github.com/jhoicas/gimnasio-api/internal/infrastructure/queue"
)

type fakeSweeper struct {
	got    sales.SweepOptions
	report sales.SweepReport
	err    error
}

func (f *fakeSweeper) Sweep(_ context.Context, opts sales.SweepOptions) (sales.SweepReport, error) {
	f.got = opts
	f.report.DryRun = opts.DryRun
	return f.report, f.err
}

func TestNewSweepTask_Payload(t *testing.T) {
	task, err := queue.NewSweepTask(true)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeSalesSweep, task.Type())

	var p queue.SweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.True(t, p.DryRun)
	assert.False(t, p.RequestedAt.IsZero())
}

func TestProcessSweep_EjecutaBarrido(t *testing.T) {
	sw := &fakeSweeper{report: sales.SweepReport{Scanned: 3, Modified: 1}}
	p := queue.NewProcessor(sw, zerolog.Nop())
	task, err := queue.NewSweepTask(true)
	require.NoError(t, err)

	require.NoError(t, p.ProcessSweep(context.Background(), task))
	assert.True(t, sw.got.DryRun)
}

func TestProcessSweep_PayloadInvalidoNoSeReintenta(t *testing.T) {
	p := queue.NewProcessor(&fakeSweeper{}, zerolog.Nop())
	err := p.ProcessSweep(context.Background(), asynq.NewTask(queue.TypeSalesSweep, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessSweep_FallosSeReintentan(t *testing.T) {
	sw := &fakeSweeper{err: &domain.SweepError{Failures: []domain.SaleRepairFailure{{SaleID: "s1", Err: errors.New("x")}}}}
	p := queue.NewProcessor(sw, zerolog.Nop())
	task, err := queue.NewSweepTask(false)
	require.NoError(t, err)

	err = p.ProcessSweep(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	var sweepErr *domain.SweepError
	assert.ErrorAs(t, err, &sweepErr)
}

func TestProcessor_Register(t *testing.T) {
	mux := asynq.NewServeMux()
	queue.NewProcessor(&fakeSweeper{}, zerolog.Nop()).Register(mux)
	task, err := queue.NewSweepTask(false)
	require.NoError(t, err)
	assert.NoError(t, mux.ProcessTask(context.Background(), task))
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, time.Second, queue.ExponentialBackoff(0, nil, nil))
	assert.Equal(t, 8*time.Second, queue.ExponentialBackoff(3, nil, nil))
	assert.Equal(t, 10*time.Minute, queue.ExponentialBackoff(15, nil, nil))
	assert.Equal(t, 10*time.Minute, queue.ExponentialBackoff(64, nil, nil))
}
