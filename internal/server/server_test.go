package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/agents"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/auth"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/knowledge"
	llmmock "gitlab.com/timkado/api/daisi-sdr-service/internal/llm/mock"
	storagemock "gitlab.com/timkado/api/daisi-sdr-service/internal/storage/mock"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/worker"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

const (
	testUserHeader = "X-Auth-Request-User"
	testUserID     = "user-test-123"
)

// inlineWorker runs action tasks synchronously on the caller's goroutine so
// handler tests do not depend on pool scheduling.
type inlineWorker struct{}

func (w *inlineWorker) Execute(task worker.ActionTask) error {
	_, err := task.Run(task.Ctx)
	return err
}

func (w *inlineWorker) Stop() {}

func newTestServer(t *testing.T) (*Server, *storagemock.RepositoryMock, *llmmock.ClientMock) {
	logger.Log = zaptest.NewLogger(t).Named("test")

	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.Auth.UserIDHeader = testUserHeader
	cfg.Auth.EmailHeader = "X-Auth-Request-Email"
	cfg.Auth.NameHeader = "X-Auth-Request-Preferred-Username"

	repo := new(storagemock.RepositoryMock)
	client := new(llmmock.ClientMock)
	agentSvc := agents.NewService(client, knowledge.NewBuilder(repo), repo, repo)

	return NewServer(cfg, repo, agentSvc, &inlineWorker{}, auth.NewHeaderProvider(*cfg)), repo, client
}

func doRequest(s *Server, method, path string, body []byte, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(testUserHeader, testUserID)
	}
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func expectUpsertUser(repo *storagemock.RepositoryMock) {
	repo.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
