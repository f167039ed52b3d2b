package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"studycycle/internal/config"
	"studycycle/internal/model"
	"studycycle/internal/pkg/apperr"
	"studycycle/internal/pkg/metrics"
	"studycycle/internal/review"

	"github.com/gin-gonic/gin"
)

type mockStudyStore struct {
	createFunc   func(ctx context.Context, session *model.StudySession) error
	updateFunc   func(ctx context.Context, userID, sessionID uint, patch review.SessionPatch) (*model.StudySession, error)
	deleteFunc   func(ctx context.Context, userID, sessionID uint) error
	completeFunc func(ctx context.Context, userID, reviewID uint) (*model.Review, error)
	undoFunc     func(ctx context.Context, userID, reviewID uint) (*model.Review, error)

	createCalls   int
	updateCalls   int
	deleteCalls   int
	completeCalls int
	undoCalls     int
}

func (m *mockStudyStore) CreateSession(ctx context.Context, session *model.StudySession) error {
	m.createCalls++
	return m.createFunc(ctx, session)
}

func (m *mockStudyStore) UpdateSession(ctx context.Context, userID, sessionID uint, patch review.SessionPatch) (*model.StudySession, error) {
	m.updateCalls++
	return m.updateFunc(ctx, userID, sessionID, patch)
}

func (m *mockStudyStore) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	m.deleteCalls++
	return m.deleteFunc(ctx, userID, sessionID)
}

func (m *mockStudyStore) Complete(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
	m.completeCalls++
	return m.completeFunc(ctx, userID, reviewID)
}

func (m *mockStudyStore) Undo(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
	m.undoCalls++
	return m.undoFunc(ctx, userID, reviewID)
}

func newTestServer(store *mockStudyStore) *Server {
	metrics.InitMetrics()
	return &Server{
		cfg:     &config.Config{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		studies: store,
	}
}

func TestCreateStudy_Normal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStudyStore{
		createFunc: func(ctx context.Context, session *model.StudySession) error {
			session.ID = 1
			return nil
		},
	}
	s := newTestServer(store)

	r := gin.New()
	r.POST("/studies", func(c *gin.Context) {
		c.Set("userID", uint(7))
		s.handleCreateStudy(c)
	})

	body := createStudyRequest{
		SubjectName:  "Math",
		Type:         "questions",
		MinutesTotal: 60,
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/studies", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.createCalls != 1 {
		t.Fatalf("expected create session to be called")
	}

	var created model.StudySession
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if created.UserID != 7 {
		t.Fatalf("expected user id from token, got %d", created.UserID)
	}
	if created.Date.IsZero() {
		t.Fatalf("expected server-assigned date")
	}
}

func TestCreateStudy_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStudyStore{
		createFunc: func(ctx context.Context, session *model.StudySession) error { return nil },
	}
	s := newTestServer(store)

	r := gin.New()
	r.POST("/studies", func(c *gin.Context) {
		c.Set("userID", uint(7))
		s.handleCreateStudy(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/studies", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.createCalls != 0 {
		t.Fatalf("expected no store call on invalid body")
	}
}

func TestUpdateStudy_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStudyStore{
		updateFunc: func(ctx context.Context, userID, sessionID uint, patch review.SessionPatch) (*model.StudySession, error) {
			return nil, apperr.New(apperr.KindNotFound, "study session not found")
		},
	}
	s := newTestServer(store)

	r := gin.New()
	r.PUT("/studies/:id", func(c *gin.Context) {
		c.Set("userID", uint(7))
		s.handleUpdateStudy(c)
	})

	payload, _ := json.Marshal(map[string]any{"minutes_total": 30})
	req := httptest.NewRequest(http.MethodPut, "/studies/99", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if store.updateCalls != 1 {
		t.Fatalf("expected update to be called once")
	}
}

func TestCompleteReview_Normal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStudyStore{
		completeFunc: func(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
			return &model.Review{ID: reviewID, UserID: userID, Status: model.ReviewStatusDone}, nil
		},
	}
	s := newTestServer(store)

	r := gin.New()
	r.POST("/reviews/:id/complete", func(c *gin.Context) {
		c.Set("userID", uint(7))
		s.handleCompleteReview(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/reviews/5/complete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.completeCalls != 1 {
		t.Fatalf("expected complete to be called once")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(model.ReviewStatusDone)) {
		t.Fatalf("expected done status in response body")
	}
}

func TestDeleteStudy_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStudyStore{
		deleteFunc: func(ctx context.Context, userID, sessionID uint) error { return nil },
	}
	s := newTestServer(store)

	r := gin.New()
	r.DELETE("/studies/:id", func(c *gin.Context) {
		c.Set("userID", uint(7))
		s.handleDeleteStudy(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/studies/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.deleteCalls != 0 {
		t.Fatalf("expected no store call on invalid id")
	}
}
