// Package mock provides a testify-based mock of the llm.Client interface.
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/llm"
)

// ClientMock is a mock implementation of llm.Client.
type ClientMock struct {
	mock.Mock
}

func (m *ClientMock) CreateCompletion(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, maxTokens)
	return args.String(0), args.Error(1)
}
