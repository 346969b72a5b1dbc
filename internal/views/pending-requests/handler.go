// internal/views/pending-requests/handler.go
package pendingrequests

import (
	"context"
	"fmt"
	"sync"

	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/models"
	"estate-admin/internal/views/detail"
	"estate-admin/internal/views/notice"
)

const ViewName = "pending-requests"

// Handler is the pending-requests screen: list <-> decision modal <-> detail modal.
type Handler struct {
	config   *Config
	slice    Slice
	notifier notice.Notifier
	logger   logger.Logger

	mu                sync.Mutex
	mode              Mode
	decision          *PendingDecision
	detail            *detail.Detail
	validationMessage string
	page              int
	size              int
}

func NewHandler(config *Config, slice Slice, notifier notice.Notifier, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		config:   config,
		slice:    slice,
		notifier: notifier,
		logger:   log.With(map[string]interface{}{"view": ViewName}),
		mode:     ModeList,
		size:     config.PageSize,
	}
}

// Load fetches one page of PENDING requests. size <= 0 keeps the current size.
func (h *Handler) Load(ctx context.Context, page, size int) error {
	h.mu.Lock()
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = h.size
	}
	h.page, h.size = page, size
	h.mu.Unlock()

	return h.slice.FetchRequestsByStatus(ctx, models.StatusPending, h.pageRequest(page, size))
}

// Refresh reloads the current page and the statistics.
func (h *Handler) Refresh(ctx context.Context) error {
	h.mu.Lock()
	page, size := h.page, h.size
	h.mu.Unlock()

	err := h.Load(ctx, page, size)
	if statsErr := h.slice.FetchStatistics(ctx); statsErr != nil && err == nil {
		err = statsErr
	}
	return err
}

// OpenDecision opens the decision modal for a row on the current page.
func (h *Handler) OpenDecision(id int64, decision models.Decision) error {
	row, ok := h.findRow(id)
	if !ok {
		return errors.NewInvalidStateError("Request is not on the current page", fmt.Sprintf("requestId=%d", id))
	}
	if decision != models.DecisionApprove && decision != models.DecisionReject {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot %s a pending request", decision), "")
	}
	if !decision.AppliesTo(row.Status) {
		return errors.NewInvalidStateError(
			fmt.Sprintf("Cannot %s a request in status %s", decision, row.Status), "")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = ModeDecision
	h.detail = nil
	h.validationMessage = ""
	h.decision = &PendingDecision{Decision: decision, Request: row, Copy: decision.Copy()}
	return nil
}

// SetInput updates the form fields of the open decision modal.
func (h *Handler) SetInput(input models.DecisionInput) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode != ModeDecision || h.decision == nil {
		return errors.NewInvalidStateError("No decision is open", "")
	}
	h.decision.Input = input
	return nil
}

// Confirm validates the open decision, dispatches it and then re-queries the
// PENDING page and statistics whatever the outcome. A validation failure keeps
// the modal open and dispatches nothing.
func (h *Handler) Confirm(ctx context.Context) error {
	h.mu.Lock()
	if h.mode != ModeDecision || h.decision == nil {
		h.mu.Unlock()
		return errors.NewInvalidStateError("No decision is open", "")
	}
	pending := *h.decision
	h.mu.Unlock()

	msg, err := pending.Decision.Validate(pending.Input)
	if err != nil {
		return err
	}
	if msg != "" {
		h.mu.Lock()
		h.validationMessage = msg
		h.mu.Unlock()
		return errors.NewValidationError(msg, pending.Decision.String())
	}

	decideErr := h.slice.Decide(ctx, pending.Decision, pending.Request.ID, pending.Input)
	if decideErr != nil {
		h.notifier.Error(errors.MessageOf(decideErr, pending.Copy.Failure))
	} else {
		h.notifier.Success(pending.Copy.Success)
	}

	h.mu.Lock()
	h.mode = ModeList
	h.decision = nil
	h.validationMessage = ""
	h.mu.Unlock()

	if err := h.Refresh(ctx); err != nil {
		h.logger.Warn("refresh after decision failed", map[string]interface{}{
			"requestId": pending.Request.ID,
			"decision":  pending.Decision.String(),
			"error":     err.Error(),
		})
	}

	return decideErr
}

// Cancel closes the decision modal without side effects.
func (h *Handler) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode == ModeDecision {
		h.mode = ModeList
		h.decision = nil
		h.validationMessage = ""
	}
}

// OpenDetail shows the read-only projection of a row.
func (h *Handler) OpenDetail(id int64) error {
	row, ok := h.findRow(id)
	if !ok {
		return errors.NewInvalidStateError("Request is not on the current page", fmt.Sprintf("requestId=%d", id))
	}
	d := detail.Project(row)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = ModeDetail
	h.decision = nil
	h.detail = &d
	return nil
}

func (h *Handler) CloseDetail() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode == ModeDetail {
		h.mode = ModeList
		h.detail = nil
	}
}

func (h *Handler) View() ViewState {
	st := h.slice.State()

	h.mu.Lock()
	defer h.mu.Unlock()
	vs := ViewState{
		Mode:              h.mode,
		Rows:              st.PendingRequests,
		Statistics:        st.Statistics,
		Detail:            h.detail,
		ValidationMessage: h.validationMessage,
		Page:              h.page,
		Size:              h.size,
		TotalElements:     st.TotalElements,
		TotalPages:        st.TotalPages,
		Loading:           st.Loading,
		Error:             st.Error,
	}
	if h.decision != nil {
		d := *h.decision
		vs.Decision = &d
	}
	return vs
}

func (h *Handler) findRow(id int64) (models.FranchiseeRequest, bool) {
	for _, r := range h.slice.State().PendingRequests {
		if r.ID == id {
			return r, true
		}
	}
	return models.FranchiseeRequest{}, false
}

func (h *Handler) pageRequest(page, size int) models.PageRequest {
	return models.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    h.config.SortBy,
		Direction: h.config.Direction,
	}
}
