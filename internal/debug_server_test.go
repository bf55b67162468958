package internal

import (
	"chat-relay/domain"
	"chat-relay/mocks"
	"chat-relay/repositories"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDebugHandler_RendersSessionsAndRecords(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := mocks.NewMockIRegistry(ctrl)
	repository := mocks.NewMockIAuditRepository(ctrl)
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	registry.EXPECT().Sessions().Return([]domain.Session{
		{ID: "c1", DisplayName: "alice", RemoteAddress: "10.0.0.1", ConnectedAt: at},
	})
	repository.EXPECT().GetRecords().Return([]repositories.DiskRecord{
		{Key: "audit:1", Record: domain.AuditRecord{At: at, Event: domain.AuditKick, Details: "alice kicked bob"}},
	}, nil)

	recorder := httptest.NewRecorder()
	NewDebugHandler(log, registry, repository).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/inspect", nil))

	req.Equal(http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	req.Contains(body, "alice")
	req.Contains(body, "10.0.0.1")
	req.Contains(body, "alice kicked bob")
	req.Contains(body, "14:05:07")
}

func TestDebugHandler_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := mocks.NewMockIRegistry(ctrl)
	repository := mocks.NewMockIAuditRepository(ctrl)

	repository.EXPECT().GetRecords().Return(nil, errors.New("closed"))
	registry.EXPECT().Sessions().Times(0)

	recorder := httptest.NewRecorder()
	NewDebugHandler(log, registry, repository).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/inspect", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
}
