package worker

import (
	"context"
	"time"

	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/infra/metrics"
	"apostila-generator/internal/usecase"
)

var _ usecase.StageExecutor = (*instrumentedPipeline)(nil)

// instrumentedPipeline records per-stage latency around the real pipeline.
type instrumentedPipeline struct {
	inner usecase.StageExecutor
}

func NewInstrumentedPipeline(inner usecase.StageExecutor) usecase.StageExecutor {
	return &instrumentedPipeline{inner: inner}
}

func (p *instrumentedPipeline) Execute(ctx context.Context, stage usecase.StageID, st *model.WorkflowState) (model.StatePatch, error) {
	start := time.Now()
	patch, err := p.inner.Execute(ctx, stage, st)
	metrics.ObserveStageLatency(string(stage), time.Since(start).Milliseconds())
	return patch, err
}
