package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// --- Lead Repository Methods ---

// GetLeads returns all leads owned by the caller, newest first.
func (r *PostgresRepo) GetLeads(ctx context.Context) ([]model.Lead, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var leads []model.Lead
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&leads)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetLeads", operation)
	observer.ObserveDbOperationDuration("list", "lead", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list leads after retries",
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if leads == nil {
		return []model.Lead{}, nil
	}
	return leads, nil
}

// GetLead finds a lead by ID scoped to the caller.
func (r *PostgresRepo) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var lead model.Lead
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&lead)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: lead_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetLead", operation)
	observer.ObserveDbOperationDuration("get", "lead", userID, time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get lead after retries",
			zap.String("lead_id", id),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	return &lead, nil
}

// CreateLead inserts a new lead owned by the caller.
func (r *PostgresRepo) CreateLead(ctx context.Context, lead *model.Lead) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	lead.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(lead).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateLead", operation)
	observer.ObserveDbOperationDuration("create", "lead", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create lead after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateLead applies a partial update to an owned lead and returns the
// refreshed row. Always bumps updated_at.
func (r *PostgresRepo) UpdateLead(ctx context.Context, id string, updates map[string]interface{}) (*model.Lead, error) {
	lead := &model.Lead{}
	err := r.updateScoped(ctx, "lead", "UpdateLead", lead, id, updates)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// DeleteLead removes an owned lead. Deleting a missing or foreign row
// reports NotFound.
func (r *PostgresRepo) DeleteLead(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, "lead", "DeleteLead", &model.Lead{}, id)
}
