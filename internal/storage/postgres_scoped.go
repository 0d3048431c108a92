package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// updateScoped applies a partial update to one owner-scoped row and reloads
// it into dest. Zero affected rows means the row is missing or foreign, which
// both surface as NotFound. updated_at is always bumped.
func (r *PostgresRepo) updateScoped(ctx context.Context, entity, opName string, dest interface{}, id string, updates map[string]interface{}) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	updates["updated_at"] = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).Model(dest).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, id)
		}
		reload := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(dest)
		if reload.Error != nil {
			return checkConstraintViolation(reload.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, opName, operation)
	observer.ObserveDbOperationDuration("update", entity, userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		if errors.Is(commitErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to update row after retries",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.String("user_id", userID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// deleteScoped removes one owner-scoped row. Deleting a missing or foreign
// row reports NotFound rather than erroring.
func (r *PostgresRepo) deleteScoped(ctx context.Context, entity, opName string, mdl interface{}, id string) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", id, userID).
			Delete(mdl)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, id)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, opName, operation)
	observer.ObserveDbOperationDuration("delete", entity, userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		if errors.Is(commitErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to delete row after retries",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.String("user_id", userID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}
