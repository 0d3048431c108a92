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
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// --- AgentConfig Repository Methods ---

// GetAgentConfigs returns the caller's per-agent settings rows.
func (r *PostgresRepo) GetAgentConfigs(ctx context.Context) ([]model.AgentConfig, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var configs []model.AgentConfig
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("agent_name ASC").
			Find(&configs)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetAgentConfigs", operation)
	observer.ObserveDbOperationDuration("list", "agent_config", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list agent configs after retries",
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if configs == nil {
		return []model.AgentConfig{}, nil
	}
	return configs, nil
}

// GetAgentConfig finds an agent config by ID scoped to the caller.
func (r *PostgresRepo) GetAgentConfig(ctx context.Context, id string) (*model.AgentConfig, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var config model.AgentConfig
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&config)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: agent_config_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetAgentConfig", operation)
	observer.ObserveDbOperationDuration("get", "agent_config", userID, time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get agent config after retries",
			zap.String("agent_config_id", id),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	return &config, nil
}

// UpsertAgentConfig creates or replaces the settings row for the caller's
// (user, agent) pair, refreshing updated_at on conflict.
func (r *PostgresRepo) UpsertAgentConfig(ctx context.Context, config *model.AgentConfig) (*model.AgentConfig, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	config.UserID = userID
	config.UpdatedAt = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "agent_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_active", "autonomous_mode", "aggression_level", "daily_budget", "updated_at",
			}),
		}).Create(config)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		// Reload to pick up the surviving row's id and timestamps when the
		// insert hit the conflict path.
		reload := r.db.WithContext(ctx).
			Where("user_id = ? AND agent_name = ?", userID, config.AgentName).
			First(config)
		if reload.Error != nil {
			return checkConstraintViolation(reload.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpsertAgentConfig", operation)
	observer.ObserveDbOperationDuration("upsert", "agent_config", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to upsert agent config after retries",
			zap.String("agent_name", config.AgentName),
			zap.String("user_id", userID),
			zap.Error(commitErr))
		return nil, commitErr
	}
	return config, nil
}

// UpdateAgentConfig applies a partial update to an owned config row by ID and
// returns the refreshed row.
func (r *PostgresRepo) UpdateAgentConfig(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentConfig, error) {
	config := &model.AgentConfig{}
	if err := r.updateScoped(ctx, "agent_config", "UpdateAgentConfig", config, id, updates); err != nil {
		return nil, err
	}
	return config, nil
}
