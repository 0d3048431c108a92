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

// --- Deal Repository Methods ---

// GetDeals returns deals for one owned lead in creation order.
func (r *PostgresRepo) GetDeals(ctx context.Context, leadID string) ([]model.Deal, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var deals []model.Deal
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("lead_id = ? AND user_id = ?", leadID, userID).
			Order("created_at ASC").
			Find(&deals)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetDeals", operation)
	observer.ObserveDbOperationDuration("list", "deal", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list deals after retries",
			zap.String("lead_id", leadID),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if deals == nil {
		return []model.Deal{}, nil
	}
	return deals, nil
}

// CreateDeal inserts a new deal owned by the caller.
func (r *PostgresRepo) CreateDeal(ctx context.Context, deal *model.Deal) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	deal.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(deal).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateDeal", operation)
	observer.ObserveDbOperationDuration("create", "deal", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create deal after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateDeal applies a partial update to an owned deal and returns the refreshed row.
func (r *PostgresRepo) UpdateDeal(ctx context.Context, id string, updates map[string]interface{}) (*model.Deal, error) {
	deal := &model.Deal{}
	if err := r.updateScoped(ctx, "deal", "UpdateDeal", deal, id, updates); err != nil {
		return nil, err
	}
	return deal, nil
}

// DeleteDeal removes an owned deal. Not exposed over HTTP yet; kept for
// parity with the other entities.
func (r *PostgresRepo) DeleteDeal(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, "deal", "DeleteDeal", &model.Deal{}, id)
}
