// internal/views/active-franchisees/handler.go
package activefranchisees

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/dataaccess"
	"estate-admin/internal/models"
	"estate-admin/internal/views/detail"
	"estate-admin/internal/views/notice"
)

const ViewName = "active-franchisees"

const (
	deleteSuccess = "Franchisee deleted successfully"
	deleteFailure = "Failed to delete franchisee"
)

// Handler lists APPROVED assignments and hosts the delete and terminate flows.
type Handler struct {
	config   *Config
	slice    Slice
	notifier notice.Notifier
	logger   logger.Logger

	mu                sync.Mutex
	mode              Mode
	deleteModal       *DeleteModal
	terminateModal    *TerminateModal
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

// Load fetches one page of APPROVED requests.
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

	return h.slice.FetchRequestsByStatus(ctx, models.StatusApproved, models.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    h.config.SortBy,
		Direction: h.config.Direction,
	})
}

func (h *Handler) reload(ctx context.Context, cause string) {
	h.mu.Lock()
	page, size := h.page, h.size
	h.mu.Unlock()

	if err := h.Load(ctx, page, size); err != nil {
		h.logger.Warn("reload failed", map[string]interface{}{"after": cause, "error": err.Error()})
	}
	if err := h.slice.FetchStatistics(ctx); err != nil {
		h.logger.Warn("statistics refresh failed", map[string]interface{}{"after": cause, "error": err.Error()})
	}
}

// OpenDelete opens the delete-with-reason modal for a row.
func (h *Handler) OpenDelete(id int64) error {
	row, ok := h.findRow(id)
	if !ok {
		return errors.NewInvalidStateError("Franchisee is not on the current page", fmt.Sprintf("requestId=%d", id))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
	h.mode = ModeDelete
	h.deleteModal = &DeleteModal{Request: row}
	return nil
}

func (h *Handler) SetReason(reason string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode != ModeDelete || h.deleteModal == nil {
		return errors.NewInvalidStateError("No delete is open", "")
	}
	h.deleteModal.Reason = reason
	return nil
}

// ConfirmDelete dispatches the delete once a non-blank reason is present. A
// blank reason keeps the modal open with a validation message. On success the
// APPROVED page is re-queried so pagination stays accurate.
func (h *Handler) ConfirmDelete(ctx context.Context) error {
	h.mu.Lock()
	if h.mode != ModeDelete || h.deleteModal == nil {
		h.mu.Unlock()
		return errors.NewInvalidStateError("No delete is open", "")
	}
	modal := *h.deleteModal
	if strings.TrimSpace(modal.Reason) == "" {
		h.validationMessage = dataaccess.ReasonRequiredMessage
		h.mu.Unlock()
		return errors.NewValidationError(dataaccess.ReasonRequiredMessage, "reason is blank")
	}
	h.validationMessage = ""
	h.mu.Unlock()

	err := h.slice.DeleteFranchisee(ctx, modal.Request.ID, modal.Reason, modal.Request.DistrictID)
	if err != nil {
		if errors.IsValidation(err) {
			h.mu.Lock()
			h.validationMessage = errors.MessageOf(err, deleteFailure)
			h.mu.Unlock()
			return err
		}
		h.notifier.Error(errors.MessageOf(err, deleteFailure))
		return err
	}

	h.notifier.Success(deleteSuccess)
	h.mu.Lock()
	h.resetLocked()
	h.mu.Unlock()
	h.reload(ctx, "delete")
	return nil
}

// OpenTerminate opens the terminate decision for an APPROVED row.
func (h *Handler) OpenTerminate(id int64) error {
	row, ok := h.findRow(id)
	if !ok {
		return errors.NewInvalidStateError("Franchisee is not on the current page", fmt.Sprintf("requestId=%d", id))
	}
	if !models.DecisionTerminate.AppliesTo(row.Status) {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot terminate a request in status %s", row.Status), "")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
	h.mode = ModeTerminate
	h.terminateModal = &TerminateModal{Request: row, Copy: models.DecisionTerminate.Copy()}
	return nil
}

func (h *Handler) SetTerminateInput(input models.DecisionInput) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mode != ModeTerminate || h.terminateModal == nil {
		return errors.NewInvalidStateError("No termination is open", "")
	}
	h.terminateModal.Input = input
	return nil
}

// ConfirmTerminate validates and sends the termination, then reloads.
func (h *Handler) ConfirmTerminate(ctx context.Context) error {
	h.mu.Lock()
	if h.mode != ModeTerminate || h.terminateModal == nil {
		h.mu.Unlock()
		return errors.NewInvalidStateError("No termination is open", "")
	}
	modal := *h.terminateModal
	h.mu.Unlock()

	msg, err := models.DecisionTerminate.Validate(modal.Input)
	if err != nil {
		return err
	}
	if msg != "" {
		h.mu.Lock()
		h.validationMessage = msg
		h.mu.Unlock()
		return errors.NewValidationError(msg, models.DecisionTerminate.String())
	}

	decideErr := h.slice.Decide(ctx, models.DecisionTerminate, modal.Request.ID, modal.Input)
	if decideErr != nil {
		h.notifier.Error(errors.MessageOf(decideErr, modal.Copy.Failure))
	} else {
		h.notifier.Success(modal.Copy.Success)
	}

	h.mu.Lock()
	h.resetLocked()
	h.mu.Unlock()
	h.reload(ctx, "terminate")
	return decideErr
}

// Cancel closes any open modal without side effects.
func (h *Handler) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
}

func (h *Handler) OpenDetail(id int64) error {
	row, ok := h.findRow(id)
	if !ok {
		return errors.NewInvalidStateError("Franchisee is not on the current page", fmt.Sprintf("requestId=%d", id))
	}
	d := detail.Project(row)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
	h.mode = ModeDetail
	h.detail = &d
	return nil
}

func (h *Handler) View() ViewState {
	st := h.slice.State()

	h.mu.Lock()
	defer h.mu.Unlock()
	vs := ViewState{
		Mode:              h.mode,
		Rows:              st.Requests,
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
	if h.deleteModal != nil {
		m := *h.deleteModal
		vs.Delete = &m
	}
	if h.terminateModal != nil {
		m := *h.terminateModal
		vs.Terminate = &m
	}
	return vs
}

func (h *Handler) resetLocked() {
	h.mode = ModeList
	h.deleteModal = nil
	h.terminateModal = nil
	h.detail = nil
	h.validationMessage = ""
}

func (h *Handler) findRow(id int64) (models.FranchiseeRequest, bool) {
	for _, r := range h.slice.State().Requests {
		if r.ID == id {
			return r, true
		}
	}
	return models.FranchiseeRequest{}, false
}
