// Package worker runs agent actions on a bounded ants pool so a burst of
// analyze/outreach requests cannot fan out into unbounded completion calls.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/storage"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// ActionTask is one unit of agent work. Ctx must carry the owner ID because
// the status transitions below go through owner-scoped repository methods.
// Run returns the payload recorded as the action's output on success.
type ActionTask struct {
	Ctx        context.Context
	ActionID   string
	AgentName  string
	ActionType string
	Run        func(ctx context.Context) (datatypes.JSON, error)

	done chan error
}

// IActionWorker defines the interface for the agent action worker pool.
type IActionWorker interface {
	Execute(task ActionTask) error
	Stop()
}

// ActionWorker manages the pool that executes agent actions and records
// their status transitions.
type ActionWorker struct {
	pool       *ants.PoolWithFunc
	actionRepo storage.AgentActionRepo
	cfg        config.ActionWorkerPoolConfig
	baseLogger *zap.Logger
}

// Ensure ActionWorker implements IActionWorker
var _ IActionWorker = (*ActionWorker)(nil)

// NewActionWorker creates and initializes the agent action worker pool.
func NewActionWorker(cfg config.ActionWorkerPoolConfig, actionRepo storage.AgentActionRepo, baseLogger *zap.Logger) (*ActionWorker, error) {
	worker := &ActionWorker{
		actionRepo: actionRepo,
		cfg:        cfg,
		baseLogger: baseLogger.Named("action_worker"),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(i interface{}) {
		task, ok := i.(*ActionTask)
		if !ok {
			worker.baseLogger.Error("Invalid task data type received", zap.Any("data", i))
			return
		}
		task.done <- worker.processActionTask(task)
	},
		ants.WithExpiryDuration(cfg.ExpiryTime),
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(cfg.QueueSize),
		ants.WithPanicHandler(func(err interface{}) {
			worker.baseLogger.Error("Panic recovered in action worker", zap.Any("panic_error", err), zap.Stack("stack"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create action worker pool: %w", err)
	}
	worker.pool = pool
	worker.baseLogger.Info("Action worker pool initialized",
		zap.Int("pool_size", cfg.PoolSize),
		zap.Int("queue_size", cfg.QueueSize),
		zap.Duration("expiry_time", cfg.ExpiryTime),
		zap.Duration("max_block_time", cfg.MaxBlock),
	)
	return worker, nil
}

// Execute submits the task and waits for it to finish. The returned error is
// the task's processing error, so callers can report the outcome in the same
// HTTP response that created the action.
func (w *ActionWorker) Execute(task ActionTask) error {
	task.done = make(chan error, 1)

	observer.IncAgentActionSubmitted(task.AgentName, task.ActionType)
	observer.SetActionQueueLength(w.pool.Waiting())

	if err := w.pool.Invoke(&task); err != nil {
		w.baseLogger.Warn("Failed to submit agent action to pool",
			zap.String("action_id", task.ActionID),
			zap.String("agent", task.AgentName),
			zap.Error(err),
		)
		observer.IncAgentActionProcessed(task.AgentName, task.ActionType, "submit_error")
		if errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("action pool overload: %w", err)
		}
		return fmt.Errorf("failed to invoke agent action: %w", err)
	}

	select {
	case err := <-task.done:
		return err
	case <-task.Ctx.Done():
		return task.Ctx.Err()
	}
}

// processActionTask runs the task and records the pending -> running ->
// completed/failed transitions on the stored action row.
func (w *ActionWorker) processActionTask(task *ActionTask) error {
	log := logger.FromContext(task.Ctx).With(
		zap.String("action_id", task.ActionID),
		zap.String("agent", task.AgentName),
		zap.String("action_type", task.ActionType),
	)

	start := time.Now()

	// Status writes run on a context detached from cancellation. If the
	// caller abandons the request mid-run, the row must still move out of
	// running; it keeps the owner ID and request ID values.
	storeCtx := context.WithoutCancel(task.Ctx)

	if _, err := w.actionRepo.UpdateAgentAction(storeCtx, task.ActionID, map[string]interface{}{
		"status": model.ActionStatusRunning,
	}); err != nil {
		log.Error("Failed to mark agent action running", zap.Error(err))
		observer.IncAgentActionProcessed(task.AgentName, task.ActionType, "failure_status_update")
		return err
	}

	output, runErr := task.Run(task.Ctx)

	if runErr != nil {
		log.Warn("Agent action failed", zap.Error(runErr))
		failureOutput := datatypes.JSON(utils.MustMarshalJSON(map[string]string{"error": runErr.Error()}))
		if _, err := w.actionRepo.UpdateAgentAction(storeCtx, task.ActionID, map[string]interface{}{
			"status":       model.ActionStatusFailed,
			"output":       failureOutput,
			"completed_at": utils.Now(),
		}); err != nil {
			log.Error("Failed to mark agent action failed", zap.Error(err))
		}
		observer.IncAgentActionProcessed(task.AgentName, task.ActionType, "failure")
		observer.ObserveAgentActionDuration(task.AgentName, task.ActionType, time.Since(start))
		return runErr
	}

	if _, err := w.actionRepo.UpdateAgentAction(storeCtx, task.ActionID, map[string]interface{}{
		"status":       model.ActionStatusCompleted,
		"output":       output,
		"completed_at": utils.Now(),
	}); err != nil {
		log.Error("Failed to mark agent action completed", zap.Error(err))
		observer.IncAgentActionProcessed(task.AgentName, task.ActionType, "failure_status_update")
		return err
	}

	observer.IncAgentActionProcessed(task.AgentName, task.ActionType, "success")
	observer.ObserveAgentActionDuration(task.AgentName, task.ActionType, time.Since(start))
	log.Debug("Finished agent action", zap.Duration("duration", time.Since(start)))
	return nil
}

// Stop gracefully shuts down the worker pool.
func (w *ActionWorker) Stop() {
	if w.pool != nil {
		w.baseLogger.Info("Releasing action worker pool")
		start := time.Now()
		w.pool.Release()
		w.baseLogger.Info("Action worker pool released", zap.Duration("duration", time.Since(start)))
	}
}
