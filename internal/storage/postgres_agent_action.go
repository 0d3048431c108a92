package storage

import (
	"context"
	"errors"
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

// actionListLimit caps the action audit listing.
const actionListLimit = 100

// --- AgentAction Repository Methods ---

// GetAgentActions returns the caller's most recent actions newest-first,
// optionally filtered to one agent. Empty agentName means all agents.
func (r *PostgresRepo) GetAgentActions(ctx context.Context, agentName string) ([]model.AgentAction, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var actions []model.AgentAction
	operation := func() error {
		query := r.db.WithContext(ctx).Where("user_id = ?", userID)
		if agentName != "" {
			query = query.Where("agent_name = ?", agentName)
		}
		result := query.Order("created_at DESC").Limit(actionListLimit).Find(&actions)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetAgentActions", operation)
	observer.ObserveDbOperationDuration("list", "agent_action", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list agent actions after retries",
			zap.String("agent_name", agentName),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	if actions == nil {
		return []model.AgentAction{}, nil
	}
	return actions, nil
}

// CreateAgentAction records the start of a structured agent operation.
func (r *PostgresRepo) CreateAgentAction(ctx context.Context, action *model.AgentAction) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	action.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(action).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateAgentAction", operation)
	observer.ObserveDbOperationDuration("create", "agent_action", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create agent action after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateAgentAction advances an action's status/output. Actions have no
// updated_at column; completed_at arrives through the updates map when the
// action finishes.
func (r *PostgresRepo) UpdateAgentAction(ctx context.Context, id string, updates map[string]interface{}) (*model.AgentAction, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	action := &model.AgentAction{}
	operation := func() error {
		result := r.db.WithContext(ctx).Model(action).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: agent_action %s", apperrors.ErrNotFound, id)
		}
		reload := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(action)
		if reload.Error != nil {
			return checkConstraintViolation(reload.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpdateAgentAction", operation)
	observer.ObserveDbOperationDuration("update", "agent_action", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		if errors.Is(commitErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to update agent action after retries",
			zap.String("agent_action_id", id),
			zap.String("user_id", userID),
			zap.Error(commitErr))
		return nil, commitErr
	}
	return action, nil
}
