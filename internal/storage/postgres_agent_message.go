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

// DefaultMessageLimit caps how much chat history a single read returns.
const DefaultMessageLimit = 50

// --- AgentMessage Repository Methods ---

// GetAgentMessages returns the most recent limit messages for the caller's
// (user, agent) pair in chronological order. The newest rows win when the log
// exceeds the limit, so the window always ends at "now".
func (r *PostgresRepo) GetAgentMessages(ctx context.Context, agentName string, limit int) ([]model.AgentMessage, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	var messages []model.AgentMessage
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ? AND agent_name = ?", userID, agentName).
			Order("created_at DESC").
			Limit(limit).
			Find(&messages)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetAgentMessages", operation)
	observer.ObserveDbOperationDuration("list", "agent_message", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list agent messages after retries",
			zap.String("agent_name", agentName),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}

	// Fetched newest-first to apply the limit; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		return []model.AgentMessage{}, nil
	}
	return messages, nil
}

// CreateAgentMessage appends one chat turn for the caller.
func (r *PostgresRepo) CreateAgentMessage(ctx context.Context, message *model.AgentMessage) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	message.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(message).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateAgentMessage", operation)
	observer.ObserveDbOperationDuration("create", "agent_message", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create agent message after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// ClearAgentMessages deletes the whole chat log for the caller's (user, agent)
// pair. Clearing an already-empty log succeeds.
func (r *PostgresRepo) ClearAgentMessages(ctx context.Context, agentName string) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ? AND agent_name = ?", userID, agentName).
			Delete(&model.AgentMessage{})
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "ClearAgentMessages", operation)
	observer.ObserveDbOperationDuration("clear", "agent_message", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to clear agent messages after retries",
			zap.String("agent_name", agentName),
			zap.String("user_id", userID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}
