package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// --- Task Repository Methods ---

// GetTasks returns tasks for one owned lead ordered by due date.
func (r *PostgresRepo) GetTasks(ctx context.Context, leadID string) ([]model.Task, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var tasks []model.Task
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("lead_id = ? AND user_id = ?", leadID, userID).
			Order("due_date ASC").
			Find(&tasks)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetTasks", operation)
	observer.ObserveDbOperationDuration("list", "task", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list tasks after retries",
			zap.String("lead_id", leadID),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if tasks == nil {
		return []model.Task{}, nil
	}
	return tasks, nil
}

// CreateTask inserts a new task owned by the caller.
func (r *PostgresRepo) CreateTask(ctx context.Context, task *model.Task) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	task.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(task).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateTask", operation)
	observer.ObserveDbOperationDuration("create", "task", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create task after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateTask applies a partial update to an owned task and returns the refreshed row.
func (r *PostgresRepo) UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (*model.Task, error) {
	task := &model.Task{}
	if err := r.updateScoped(ctx, "task", "UpdateTask", task, id, updates); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes an owned task.
func (r *PostgresRepo) DeleteTask(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, "task", "DeleteTask", &model.Task{}, id)
}
