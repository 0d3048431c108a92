// Package knowledge assembles user-authored documents into prompt context
// blocks for the agent personas.
package knowledge

import (
	"context"
	"strings"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/storage"
)

// Builder turns stored knowledge documents into a prompt context block.
type Builder struct {
	repo storage.KnowledgeRepo
}

// NewBuilder creates a Builder over the given repository.
func NewBuilder(repo storage.KnowledgeRepo) *Builder {
	return &Builder{repo: repo}
}

// BuildContext loads the caller's active documents, optionally narrowed to
// one category, and concatenates them as titled sections in store order
// (newest first). Returns an empty string when nothing matches; callers must
// omit the section entirely rather than injecting an empty header.
func (b *Builder) BuildContext(ctx context.Context, category string) (string, error) {
	docs, err := b.repo.GetKnowledgeDocuments(ctx, category)
	if err != nil {
		return "", err
	}

	sections := make([]string, 0, len(docs))
	for _, doc := range docs {
		if !doc.IsActive {
			continue
		}
		sections = append(sections, "### "+doc.Title+"\n"+doc.Content)
	}
	return strings.Join(sections, "\n\n"), nil
}
