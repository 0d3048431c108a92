package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/config"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	storagemock "gitlab.com/timkado/api/daisi-sdr-service/internal/storage/mock"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

func newTestWorker(t *testing.T) (*ActionWorker, *storagemock.RepositoryMock) {
	logger.Log = zaptest.NewLogger(t).Named("test")
	repo := new(storagemock.RepositoryMock)
	w, err := NewActionWorker(config.ActionWorkerPoolConfig{
		PoolSize:   2,
		QueueSize:  4,
		MaxBlock:   time.Second,
		ExpiryTime: time.Minute,
	}, repo, logger.Log)
	assert.NoError(t, err)
	t.Cleanup(w.Stop)
	return w, repo
}

func TestExecute_Success(t *testing.T) {
	w, repo := newTestWorker(t)

	repo.On("UpdateAgentAction", mock.Anything, "action-1", map[string]interface{}{
		"status": model.ActionStatusRunning,
	}).Return(&model.AgentAction{ID: "action-1"}, nil).Once()
	repo.On("UpdateAgentAction", mock.Anything, "action-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == model.ActionStatusCompleted && updates["output"] != nil && updates["completed_at"] != nil
	})).Return(&model.AgentAction{ID: "action-1"}, nil).Once()

	ran := false
	err := w.Execute(ActionTask{
		Ctx:        context.Background(),
		ActionID:   "action-1",
		AgentName:  model.AgentHunter,
		ActionType: "analyze_lead",
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			ran = true
			return datatypes.JSON(`{"content":"done"}`), nil
		},
	})

	assert.NoError(t, err)
	assert.True(t, ran)
	repo.AssertExpectations(t)
}

func TestExecute_RunFailureMarksActionFailed(t *testing.T) {
	w, repo := newTestWorker(t)

	repo.On("UpdateAgentAction", mock.Anything, "action-1", map[string]interface{}{
		"status": model.ActionStatusRunning,
	}).Return(&model.AgentAction{ID: "action-1"}, nil).Once()
	repo.On("UpdateAgentAction", mock.Anything, "action-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == model.ActionStatusFailed &&
			string(updates["output"].(datatypes.JSON)) == `{"error":"completion timed out"}`
	})).Return(&model.AgentAction{ID: "action-1"}, nil).Once()

	err := w.Execute(ActionTask{
		Ctx:        context.Background(),
		ActionID:   "action-1",
		AgentName:  model.AgentScribe,
		ActionType: "generate_outreach",
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			return nil, errors.New("completion timed out")
		},
	})

	assert.EqualError(t, err, "completion timed out")
	repo.AssertExpectations(t)
}

func TestExecute_CanceledRequestStillRecordsFailure(t *testing.T) {
	w, repo := newTestWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo.On("UpdateAgentAction", mock.Anything, "action-1", map[string]interface{}{
		"status": model.ActionStatusRunning,
	}).Return(&model.AgentAction{ID: "action-1"}, nil).Once()

	// The failure write must arrive on a live context even though the
	// request context is gone, otherwise the row is stuck in running.
	recorded := make(chan struct{})
	repo.On("UpdateAgentAction", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "action-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == model.ActionStatusFailed
	})).Return(&model.AgentAction{ID: "action-1"}, nil).Once().Run(func(mock.Arguments) {
		close(recorded)
	})

	err := w.Execute(ActionTask{
		Ctx:        ctx,
		ActionID:   "action-1",
		AgentName:  model.AgentHunter,
		ActionType: "analyze_lead",
		Run: func(runCtx context.Context) (datatypes.JSON, error) {
			cancel()
			return nil, runCtx.Err()
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
	select {
	case <-recorded:
	case <-time.After(2 * time.Second):
		t.Fatal("failed status was never written")
	}
	repo.AssertExpectations(t)
}

func TestExecute_StatusUpdateFailureShortCircuits(t *testing.T) {
	w, repo := newTestWorker(t)

	repo.On("UpdateAgentAction", mock.Anything, "action-1", map[string]interface{}{
		"status": model.ActionStatusRunning,
	}).Return(nil, errors.New("db down")).Once()

	ran := false
	err := w.Execute(ActionTask{
		Ctx:        context.Background(),
		ActionID:   "action-1",
		AgentName:  model.AgentOracle,
		ActionType: "analyze_pipeline",
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			ran = true
			return nil, nil
		},
	})

	assert.Error(t, err)
	assert.False(t, ran)
	repo.AssertExpectations(t)
}
