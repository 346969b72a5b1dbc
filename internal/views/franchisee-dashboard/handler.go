// internal/views/franchisee-dashboard/handler.go
package franchiseedashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/models"
	"estate-admin/internal/views/notice"
)

const ViewName = "franchisee-dashboard"

// Handler composes statistics, the district picker and the per-district
// listing, and exports the listing as CSV.
type Handler struct {
	config    *Config
	slice     Slice
	districts DistrictLister
	notifier  notice.Notifier
	logger    logger.Logger

	mu               sync.Mutex
	districtList     []models.District
	selectedDistrict *int64
}

func NewHandler(config *Config, slice Slice, districts DistrictLister, notifier notice.Notifier, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		config:    config,
		slice:     slice,
		districts: districts,
		notifier:  notifier,
		logger:    log.With(map[string]interface{}{"view": ViewName}),
	}
}

// Load refreshes statistics, districts and the listing for the selected
// district. Every step runs; the first failure is returned.
func (h *Handler) Load(ctx context.Context) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	keep(h.slice.FetchStatistics(ctx))

	if h.districts != nil {
		list, err := h.districts.List(ctx)
		if err != nil {
			h.logger.Warn("failed to load districts", map[string]interface{}{"error": err.Error()})
			keep(err)
		} else {
			h.mu.Lock()
			h.districtList = list
			h.mu.Unlock()
		}
	}

	h.mu.Lock()
	selected := h.selectedDistrict
	h.mu.Unlock()
	keep(h.slice.FetchByDistrict(ctx, selected))

	return first
}

// SelectDistrict switches the listing; nil means all districts.
func (h *Handler) SelectDistrict(ctx context.Context, districtID *int64) error {
	h.mu.Lock()
	if districtID != nil {
		id := *districtID
		districtID = &id
	}
	h.selectedDistrict = districtID
	h.mu.Unlock()

	return h.slice.FetchByDistrict(ctx, districtID)
}

func (h *Handler) View() ViewState {
	st := h.slice.State()

	h.mu.Lock()
	defer h.mu.Unlock()
	return ViewState{
		Statistics:       st.Statistics,
		Districts:        append([]models.District(nil), h.districtList...),
		SelectedDistrict: h.selectedDistrict,
		Rows:             st.Requests,
		TotalElements:    st.TotalElements,
		Loading:          st.Loading,
		Error:            st.Error,
	}
}

// Export writes the current listing as CSV. The listing never holds
// TERMINATED assignments, so the report covers pending, approved and
// rejected requests only.
func (h *Handler) Export(w io.Writer) error {
	return WriteCSV(w, h.slice.State().Requests)
}

// Filename is the suggested download name, dated by the configured clock.
func (h *Handler) Filename() string {
	h.mu.Lock()
	selected := h.selectedDistrict
	h.mu.Unlock()

	date := h.config.Now().Format("2006-01-02")
	if selected != nil {
		return fmt.Sprintf("%s-district-%d-%s.csv", h.config.FilenamePrefix, *selected, date)
	}
	return fmt.Sprintf("%s-%s.csv", h.config.FilenamePrefix, date)
}

// ExportFile writes the report into dir and returns its path.
func (h *Handler) ExportFile(dir string) (string, error) {
	path := filepath.Join(dir, h.Filename())
	f, err := os.Create(path)
	if err != nil {
		h.notifier.Error("Failed to export report")
		return "", errors.NewInvalidStateError("Failed to export report", err.Error())
	}

	exportErr := h.Export(f)
	closeErr := f.Close()
	if exportErr == nil {
		exportErr = closeErr
	}
	if exportErr != nil {
		h.notifier.Error("Failed to export report")
		return "", fmt.Errorf("write report %s: %w", path, exportErr)
	}

	h.notifier.Success(fmt.Sprintf("Report exported to %s", path))
	h.logger.Info("report exported", map[string]interface{}{
		"path": path,
		"rows": len(h.slice.State().Requests),
	})
	return path, nil
}
