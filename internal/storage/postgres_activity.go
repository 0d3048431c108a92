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

// --- Activity Repository Methods ---

// GetActivities returns the audit trail for one owned lead in chronological order.
func (r *PostgresRepo) GetActivities(ctx context.Context, leadID string) ([]model.Activity, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var activities []model.Activity
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("lead_id = ? AND user_id = ?", leadID, userID).
			Order("created_at ASC").
			Find(&activities)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetActivities", operation)
	observer.ObserveDbOperationDuration("list", "activity", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list activities after retries",
			zap.String("lead_id", leadID),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if activities == nil {
		return []model.Activity{}, nil
	}
	return activities, nil
}

// CreateActivity appends one audit record. Activities are never updated or
// deleted afterwards.
func (r *PostgresRepo) CreateActivity(ctx context.Context, activity *model.Activity) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	activity.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(activity).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateActivity", operation)
	observer.ObserveDbOperationDuration("create", "activity", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create activity after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}
