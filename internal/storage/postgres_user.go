package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// --- User Repository Methods ---

// GetUser finds a user by ID. No owner scoping: a user row is its own tenant.
func (r *PostgresRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetUser", operation)
	observer.ObserveDbOperationDuration("get", "user", id, time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get user after retries",
			zap.String("user_id", id),
			zap.Error(findErr))
		return nil, findErr
	}
	return &user, nil
}

// UpsertUser creates or updates a user row keyed on id. Called on every
// login, so conflicts refresh the mutable profile fields.
func (r *PostgresRepo) UpsertUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "first_name", "last_name", "profile_image_url", "updated_at",
			}),
		}).Create(user)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpsertUser", operation)
	observer.ObserveDbOperationDuration("upsert", "user", user.ID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to upsert user after retries",
			zap.String("user_id", user.ID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}
