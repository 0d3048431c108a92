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

// --- Campaign Repository Methods ---

// GetCampaigns returns all campaigns owned by the caller, newest first.
func (r *PostgresRepo) GetCampaigns(ctx context.Context) ([]model.Campaign, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var campaigns []model.Campaign
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&campaigns)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetCampaigns", operation)
	observer.ObserveDbOperationDuration("list", "campaign", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list campaigns after retries",
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if campaigns == nil {
		return []model.Campaign{}, nil
	}
	return campaigns, nil
}

// GetCampaign finds a campaign by ID scoped to the caller.
func (r *PostgresRepo) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var campaign model.Campaign
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&campaign)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: campaign_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetCampaign", operation)
	observer.ObserveDbOperationDuration("get", "campaign", userID, time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get campaign after retries",
			zap.String("campaign_id", id),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	return &campaign, nil
}

// CreateCampaign inserts a new campaign owned by the caller.
func (r *PostgresRepo) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	campaign.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(campaign).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateCampaign", operation)
	observer.ObserveDbOperationDuration("create", "campaign", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create campaign after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateCampaign applies a partial update to an owned campaign and returns the refreshed row.
func (r *PostgresRepo) UpdateCampaign(ctx context.Context, id string, updates map[string]interface{}) (*model.Campaign, error) {
	campaign := &model.Campaign{}
	if err := r.updateScoped(ctx, "campaign", "UpdateCampaign", campaign, id, updates); err != nil {
		return nil, err
	}
	return campaign, nil
}

// DeleteCampaign removes an owned campaign.
func (r *PostgresRepo) DeleteCampaign(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, "campaign", "DeleteCampaign", &model.Campaign{}, id)
}
