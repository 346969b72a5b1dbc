package dataaccess

import (
	"context"
	"time"

	"estate-admin/internal/common/cache"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/models"
)

const districtsCacheKey = "districts:all"

// DistrictService serves district reference data, cached in-process.
type DistrictService struct {
	client *httpclient.Client
	cache  *cache.Local
	ttl    time.Duration
	logger logger.Logger
}

// NewDistrictService builds the service; local may be nil to disable caching.
func NewDistrictService(client *httpclient.Client, local *cache.Local, ttl time.Duration, log logger.Logger) *DistrictService {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &DistrictService{client: client, cache: local, ttl: ttl, logger: log}
}

func (s *DistrictService) List(ctx context.Context) ([]models.District, error) {
	if s.cache != nil {
		var cached []models.District
		found, err := s.cache.Get(ctx, districtsCacheKey, &cached)
		if err != nil {
			s.logger.Warn("discarding cached districts", map[string]interface{}{"error": err.Error()})
		}
		if found {
			return cached, nil
		}
	}

	var districts []models.District
	if err := s.client.Get(ctx, "districts.list", "/api/districts", nil, &districts); err != nil {
		return nil, err
	}
	if districts == nil {
		districts = []models.District{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, districtsCacheKey, districts, s.ttl); err != nil {
			s.logger.Warn("failed to cache districts", map[string]interface{}{"error": err.Error()})
		}
	}
	return districts, nil
}

// Invalidate drops the cached list so the next List hits the remote.
func (s *DistrictService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, districtsCacheKey)
	}
}
