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

// --- KnowledgeDocument Repository Methods ---

// GetKnowledgeDocuments returns the caller's documents newest-first,
// optionally narrowed to one category.
func (r *PostgresRepo) GetKnowledgeDocuments(ctx context.Context, category string) ([]model.KnowledgeDocument, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var docs []model.KnowledgeDocument
	operation := func() error {
		query := r.db.WithContext(ctx).Where("user_id = ?", userID)
		if category != "" {
			query = query.Where("category = ?", category)
		}
		result := query.Order("created_at DESC").Find(&docs)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetKnowledgeDocuments", operation)
	observer.ObserveDbOperationDuration("list", "knowledge_document", userID, time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list knowledge documents after retries",
			zap.String("user_id", userID),
			zap.String("category", category),
			zap.Error(findErr))
		return nil, findErr
	}
	if docs == nil {
		return []model.KnowledgeDocument{}, nil
	}
	return docs, nil
}

// GetKnowledgeDocument finds a document by ID scoped to the caller.
func (r *PostgresRepo) GetKnowledgeDocument(ctx context.Context, id string) (*model.KnowledgeDocument, error) {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}

	var doc model.KnowledgeDocument
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&doc)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: document_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetKnowledgeDocument", operation)
	observer.ObserveDbOperationDuration("get", "knowledge_document", userID, time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get knowledge document after retries",
			zap.String("document_id", id),
			zap.String("user_id", userID),
			zap.Error(findErr))
		return nil, findErr
	}
	return &doc, nil
}

// CreateKnowledgeDocument inserts a new document owned by the caller.
func (r *PostgresRepo) CreateKnowledgeDocument(ctx context.Context, doc *model.KnowledgeDocument) error {
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get user ID from context: %w", apperrors.ErrUnauthorized, err)
	}
	doc.UserID = userID

	operation := func() error {
		if createErr := r.db.WithContext(ctx).Create(doc).Error; createErr != nil {
			return checkConstraintViolation(createErr)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "CreateKnowledgeDocument", operation)
	observer.ObserveDbOperationDuration("create", "knowledge_document", userID, time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to create knowledge document after retries", zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateKnowledgeDocument applies a partial update to an owned document and
// returns the refreshed row.
func (r *PostgresRepo) UpdateKnowledgeDocument(ctx context.Context, id string, updates map[string]interface{}) (*model.KnowledgeDocument, error) {
	doc := &model.KnowledgeDocument{}
	if err := r.updateScoped(ctx, "knowledge_document", "UpdateKnowledgeDocument", doc, id, updates); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteKnowledgeDocument removes an owned document.
func (r *PostgresRepo) DeleteKnowledgeDocument(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, "knowledge_document", "DeleteKnowledgeDocument", &model.KnowledgeDocument{}, id)
}
