package pendingrequests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"estate-admin/internal/common/auth"
	"estate-admin/internal/common/config"
	"estate-admin/internal/common/errors"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/dataaccess"
	"estate-admin/internal/models"
	"estate-admin/internal/store"
	"estate-admin/internal/views/notice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// remoteAuthority is an in-memory stand-in for the remote API that owns the
// franchisee requests and applies decisions to them.
type remoteAuthority struct {
	mu         sync.Mutex
	requests   map[int64]*models.FranchiseeRequest
	statusHits []string
	decisions  []string
	rejectWith string
}

func newRemoteAuthority(ids ...int64) *remoteAuthority {
	r := &remoteAuthority{requests: map[int64]*models.FranchiseeRequest{}}
	for _, id := range ids {
		r.requests[id] = &models.FranchiseeRequest{
			ID:           id,
			Name:         fmt.Sprintf("Applicant %d", id),
			DistrictID:   4,
			DistrictName: "Pune",
			Status:       models.StatusPending,
			DocumentURLs: []string{fmt.Sprintf("https://cdn.example.com/docs/%d/pan.pdf", id)},
		}
	}
	return r
}

func (r *remoteAuthority) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	path := req.URL.Path
	switch {
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/api/franchisee/requests/status/"):
		status := models.RequestStatus(strings.TrimPrefix(path, "/api/franchisee/requests/status/"))
		r.statusHits = append(r.statusHits, fmt.Sprintf("%s page=%s size=%s", status, req.URL.Query().Get("page"), req.URL.Query().Get("size")))
		content := []models.FranchiseeRequest{}
		for id := int64(1); id <= 100; id++ {
			if fr, ok := r.requests[id]; ok && fr.Status == status {
				content = append(content, *fr)
			}
		}
		_ = json.NewEncoder(w).Encode(models.Page[models.FranchiseeRequest]{
			Content: content, TotalElements: int64(len(content)), TotalPages: 1, Number: 0, Size: 10,
		})

	case req.Method == http.MethodGet && path == "/api/franchisee/requests/statistics":
		stats := models.Statistics{}
		for _, fr := range r.requests {
			stats[fr.Status]++
		}
		_ = json.NewEncoder(w).Encode(stats)

	case req.Method == http.MethodPut && strings.HasPrefix(path, "/api/franchisee/requests/"):
		parts := strings.Split(strings.TrimPrefix(path, "/api/franchisee/requests/"), "/")
		id, _ := strconv.ParseInt(parts[0], 10, 64)
		r.decisions = append(r.decisions, fmt.Sprintf("%s %d comments=%q", parts[1], id, req.URL.Query().Get("comments")))
		if r.rejectWith != "" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": r.rejectWith})
			return
		}
		fr, ok := r.requests[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Franchisee request not found"})
			return
		}
		switch parts[1] {
		case "approve":
			fr.Status = models.StatusApproved
		case "reject":
			fr.Status = models.StatusRejected
		}
		fr.AdminComments = req.URL.Query().Get("comments")
		_ = json.NewEncoder(w).Encode(fr)

	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "no route"})
	}
}

type fixture struct {
	remote  *remoteAuthority
	handler *Handler
	slice   *store.FranchiseeSlice
	notices *notice.Recorder
}

func newFixture(t *testing.T, ids ...int64) *fixture {
	t.Helper()
	remote := newRemoteAuthority(ids...)
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger(t)
	client := httpclient.NewClient(server.URL, 5*time.Second, auth.StaticToken("admin-token"), log)
	slice := store.NewFranchiseeSlice(dataaccess.NewFranchiseeService(client, log), store.WithLogger(log))
	notices := notice.NewRecorder()
	cfg := LoadConfig(config.ListingConfig{PageSize: 10, SortBy: "createdAt", Direction: "desc"})

	return &fixture{
		remote:  remote,
		handler: NewHandler(cfg, slice, notices, log),
		slice:   slice,
		notices: notices,
	}
}

func rowIDs(rows []models.FranchiseeRequest) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

// ==========================
// Tests
// ==========================

func TestScenario_ApproveRemovesRequestFromPendingPage(t *testing.T) {
	f := newFixture(t, 3, 7, 9)
	ctx := context.Background()

	require.NoError(t, f.handler.Load(ctx, 0, 10))
	assert.Equal(t, []int64{3, 7, 9}, rowIDs(f.handler.View().Rows))

	require.NoError(t, f.handler.OpenDecision(7, models.DecisionApprove))
	require.NoError(t, f.handler.SetInput(models.DecisionInput{Comments: "ok"}))
	require.NoError(t, f.handler.Confirm(ctx))

	view := f.handler.View()
	assert.Equal(t, ModeList, view.Mode)
	assert.Nil(t, view.Decision)
	assert.NotContains(t, rowIDs(view.Rows), int64(7))
	assert.Equal(t, []int64{3, 9}, rowIDs(view.Rows))
	assert.Equal(t, int64(1), view.Statistics.Count(models.StatusApproved))

	f.remote.mu.Lock()
	assert.Equal(t, []string{`approve 7 comments="ok"`}, f.remote.decisions)
	assert.Equal(t, []string{"PENDING page=0 size=10", "PENDING page=0 size=10"}, f.remote.statusHits)
	f.remote.mu.Unlock()

	last, ok := f.notices.Last()
	require.True(t, ok)
	assert.Equal(t, notice.LevelSuccess, last.Level)
	assert.Equal(t, "Request approved successfully", last.Message)
}

func TestConfirm_RejectWithoutCommentsKeepsModalOpen(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()
	require.NoError(t, f.handler.Load(ctx, 0, 10))

	require.NoError(t, f.handler.OpenDecision(7, models.DecisionReject))
	require.NoError(t, f.handler.SetInput(models.DecisionInput{Comments: "   "}))
	err := f.handler.Confirm(ctx)

	assert.True(t, errors.IsValidation(err))
	view := f.handler.View()
	assert.Equal(t, ModeDecision, view.Mode)
	assert.Equal(t, "Comments are required", view.ValidationMessage)
	f.remote.mu.Lock()
	assert.Empty(t, f.remote.decisions)
	f.remote.mu.Unlock()
	assert.Empty(t, f.notices.Notices())
}

func TestConfirm_RemoteFailureStillRequeries(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()
	require.NoError(t, f.handler.Load(ctx, 0, 10))
	f.remote.mu.Lock()
	f.remote.rejectWith = "Request was already processed"
	f.remote.mu.Unlock()

	require.NoError(t, f.handler.OpenDecision(7, models.DecisionReject))
	require.NoError(t, f.handler.SetInput(models.DecisionInput{Comments: "duplicate"}))
	err := f.handler.Confirm(ctx)

	require.Error(t, err)
	assert.Equal(t, "Request was already processed", errors.MessageOf(err, ""))
	last, _ := f.notices.Last()
	assert.Equal(t, notice.LevelError, last.Level)
	assert.Equal(t, "Request was already processed", last.Message)

	f.remote.mu.Lock()
	assert.Len(t, f.remote.statusHits, 2, "the PENDING page is re-queried after a failure too")
	f.remote.mu.Unlock()
	assert.Equal(t, ModeList, f.handler.View().Mode)
}

func TestCancel_HasNoSideEffects(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()
	require.NoError(t, f.handler.Load(ctx, 0, 10))

	require.NoError(t, f.handler.OpenDecision(7, models.DecisionApprove))
	f.handler.Cancel()

	view := f.handler.View()
	assert.Equal(t, ModeList, view.Mode)
	assert.Nil(t, view.Decision)
	f.remote.mu.Lock()
	assert.Empty(t, f.remote.decisions)
	assert.Len(t, f.remote.statusHits, 1)
	f.remote.mu.Unlock()
	assert.Empty(t, f.notices.Notices())
}

func TestOpenDecision_Guards(t *testing.T) {
	f := newFixture(t, 7)
	require.NoError(t, f.handler.Load(context.Background(), 0, 10))

	err := f.handler.OpenDecision(99, models.DecisionApprove)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidState))

	err = f.handler.OpenDecision(7, models.DecisionTerminate)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidState))

	assert.Error(t, f.handler.Confirm(context.Background()), "nothing to confirm")
	assert.Error(t, f.handler.SetInput(models.DecisionInput{Comments: "x"}))
}

func TestDetail_IsReadOnlyProjection(t *testing.T) {
	f := newFixture(t, 7)
	require.NoError(t, f.handler.Load(context.Background(), 0, 10))

	require.NoError(t, f.handler.OpenDetail(7))
	view := f.handler.View()
	assert.Equal(t, ModeDetail, view.Mode)
	require.NotNil(t, view.Detail)
	assert.Equal(t, int64(7), view.Detail.RequestID)
	require.Len(t, view.Detail.Documents, 1)
	assert.Equal(t, "pan.pdf", view.Detail.Documents[0].Name)

	f.handler.CloseDetail()
	assert.Equal(t, ModeList, f.handler.View().Mode)
	assert.Nil(t, f.handler.View().Detail)
	f.remote.mu.Lock()
	assert.Empty(t, f.remote.decisions)
	f.remote.mu.Unlock()
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(config.ListingConfig{})
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "createdAt", cfg.SortBy)
	assert.Equal(t, "DESC", cfg.Direction)
}
