// Package dataaccess is the only layer that talks to the remote API. Each
// service maps one resource onto its REST endpoints and returns normalized
// results or *errors.StandardError values.
package dataaccess

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"estate-admin/internal/common/errors"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/common/validation"
	"estate-admin/internal/models"
)

const (
	franchiseeBase = "/api/franchisee"
	adminBase      = "/api/admin"
)

type FranchiseeService struct {
	client *httpclient.Client
	logger logger.Logger
}

func NewFranchiseeService(client *httpclient.Client, log logger.Logger) *FranchiseeService {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &FranchiseeService{
		client: client,
		logger: log.With(map[string]interface{}{"service": "franchisee"}),
	}
}

// ListRequests returns the general listing. A district filter switches to the
// un-paged district endpoint, normalized into a single page.
func (s *FranchiseeService) ListRequests(ctx context.Context, filters models.RequestFilters) (models.Page[models.FranchiseeRequest], error) {
	if err := validation.ValidateStruct(filters); err != nil {
		return models.Page[models.FranchiseeRequest]{}, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}

	if filters.DistrictID != nil {
		return s.ListByDistrict(ctx, *filters.DistrictID)
	}

	query := pageQuery(filters.PageRequest)
	setIf(query, "search", strings.TrimSpace(filters.Search))
	setIf(query, "status", string(filters.Status))
	setIf(query, "startDate", filters.FromDate)
	setIf(query, "endDate", filters.ToDate)

	var page models.Page[models.FranchiseeRequest]
	if err := s.client.Get(ctx, "franchisee.list", franchiseeBase+"/district-assignments", query, &page); err != nil {
		return models.Page[models.FranchiseeRequest]{}, err
	}
	return page, nil
}

func (s *FranchiseeService) ListByStatus(ctx context.Context, status models.RequestStatus, req models.PageRequest) (models.Page[models.FranchiseeRequest], error) {
	if !status.Valid() {
		return models.Page[models.FranchiseeRequest]{}, errors.NewValidationError(
			fmt.Sprintf("Unknown status %q", status), "")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return models.Page[models.FranchiseeRequest]{}, errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}

	var page models.Page[models.FranchiseeRequest]
	path := fmt.Sprintf("%s/requests/status/%s", franchiseeBase, url.PathEscape(string(status)))
	if err := s.client.Get(ctx, "franchisee.byStatus", path, pageQuery(req), &page); err != nil {
		return models.Page[models.FranchiseeRequest]{}, err
	}
	return page, nil
}

func (s *FranchiseeService) Statistics(ctx context.Context) (models.Statistics, error) {
	stats := models.Statistics{}
	if err := s.client.Get(ctx, "franchisee.statistics", franchiseeBase+"/requests/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListByDistrict fetches the raw array for one district; totalElements always
// equals len(content).
func (s *FranchiseeService) ListByDistrict(ctx context.Context, districtID int64) (models.Page[models.FranchiseeRequest], error) {
	var items []models.FranchiseeRequest
	path := fmt.Sprintf("%s/requests/district/%d", franchiseeBase, districtID)
	if err := s.client.Get(ctx, "franchisee.byDistrict", path, nil, &items); err != nil {
		return models.Page[models.FranchiseeRequest]{}, err
	}
	return models.SinglePage(items), nil
}

// AdminReport is the consolidated report across all districts.
func (s *FranchiseeService) AdminReport(ctx context.Context) ([]models.FranchiseeRequest, error) {
	var items []models.FranchiseeRequest
	if err := s.client.Get(ctx, "franchisee.report", franchiseeBase+"/reports/admin/all", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.FranchiseeRequest{}
	}
	return items, nil
}

func (s *FranchiseeService) Get(ctx context.Context, id int64) (*models.FranchiseeRequest, error) {
	var req models.FranchiseeRequest
	path := fmt.Sprintf("%s/requests/%d", franchiseeBase, id)
	if err := s.client.Get(ctx, "franchisee.get", path, nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Decide sends one decision. The response body is ignored; callers re-fetch.
func (s *FranchiseeService) Decide(ctx context.Context, decision models.Decision, id int64, input models.DecisionInput) error {
	msg, err := decision.Validate(input)
	if err != nil {
		return errors.NewValidationError(err.Error(), "")
	}
	if msg != "" {
		return errors.NewValidationError(msg, decision.String())
	}

	query := url.Values{}
	doc := input.Document()
	if c, ok := doc["comments"].(string); ok {
		query.Set("comments", c)
	}
	if decision == models.DecisionApprove {
		if e, ok := doc["endDate"].(string); ok {
			query.Set("endDate", e)
		}
	}

	path := fmt.Sprintf("%s/requests/%d/%s", franchiseeBase, id, decision.Endpoint())
	if err := s.client.Put(ctx, "franchisee."+decision.String(), path, query, nil, nil); err != nil {
		return err
	}

	s.logger.Info("decision recorded", map[string]interface{}{
		"requestId": id,
		"decision":  decision.String(),
	})
	return nil
}

func (s *FranchiseeService) Approve(ctx context.Context, id int64, comments, endDate string) error {
	return s.Decide(ctx, models.DecisionApprove, id, models.DecisionInput{Comments: comments, EndDate: endDate})
}

func (s *FranchiseeService) Reject(ctx context.Context, id int64, comments string) error {
	return s.Decide(ctx, models.DecisionReject, id, models.DecisionInput{Comments: comments})
}

func (s *FranchiseeService) Terminate(ctx context.Context, id int64, comments string) error {
	return s.Decide(ctx, models.DecisionTerminate, id, models.DecisionInput{Comments: comments})
}

// ReasonRequiredMessage is shown when a delete is submitted without a reason.
const ReasonRequiredMessage = "Reason is required"

// DeleteForm is the delete-franchisee form.
type DeleteForm struct {
	Reason     string `json:"reason" validate:"notblank,max=1000"`
	DistrictID int64  `json:"districtId" validate:"required"`
}

// Delete hard-deletes an assignment. A blank reason never reaches the remote.
func (s *FranchiseeService) Delete(ctx context.Context, id int64, reason string, districtID int64) error {
	if strings.TrimSpace(reason) == "" {
		return errors.NewValidationError(ReasonRequiredMessage, "reason is blank")
	}
	form := DeleteForm{Reason: reason, DistrictID: districtID}
	if err := validation.ValidateStruct(form); err != nil {
		return errors.NewValidationError(validation.SanitizeValidationError(err), err.Error())
	}

	query := url.Values{}
	query.Set("reason", strings.TrimSpace(reason))
	path := fmt.Sprintf("%s/franchisee/%d/%d", adminBase, id, districtID)
	if err := s.client.Delete(ctx, "franchisee.delete", path, query); err != nil {
		return err
	}

	s.logger.Info("franchisee deleted", map[string]interface{}{
		"requestId":  id,
		"districtId": districtID,
	})
	return nil
}

func pageQuery(req models.PageRequest) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	if req.Size > 0 {
		query.Set("size", strconv.Itoa(req.Size))
	}
	setIf(query, "sortBy", req.SortBy)
	setIf(query, "direction", strings.ToUpper(req.Direction))
	return query
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
