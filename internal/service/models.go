package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"examgen/internal/cache"
	"examgen/internal/domain"
	"examgen/internal/dto"
	"examgen/internal/logger"

	"go.uber.org/zap"
)

// ModelService lists the free models offered by the generation service
// and verifies connectivity. The free-model listing is cached; cache
// failures degrade to a direct fetch and are never surfaced to callers.
type ModelService struct {
	catalog domain.ModelCatalog
	tester  domain.ConnectionTester
	cache   domain.Cache
	ttl     time.Duration
}

func NewModelService(catalog domain.ModelCatalog, tester domain.ConnectionTester, modelCache domain.Cache, ttl time.Duration) *ModelService {
	return &ModelService{
		catalog: catalog,
		tester:  tester,
		cache:   modelCache,
		ttl:     ttl,
	}
}

func (s *ModelService) freeModelsCacheKey() string {
	return cache.GenerateCacheKey("models", "free", "list")
}

// GetFreeModels returns the free models, cached for the configured TTL.
func (s *ModelService) GetFreeModels(ctx context.Context) ([]dto.ModelInfo, error) {
	key := s.freeModelsCacheKey()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var models []dto.ModelInfo
			if err := json.Unmarshal([]byte(cached), &models); err == nil {
				return models, nil
			}
			logger.Get().Warn("Discarding undecodable cached model list", zap.Error(err))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Model list cache lookup failed", zap.Error(err))
		}
	}

	all, err := s.catalog.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	free := domain.FreeModels(all)
	models := make([]dto.ModelInfo, 0, len(free))
	for _, m := range free {
		models = append(models, dto.ModelInfo{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(models); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
				logger.Get().Warn("Failed to cache model list", zap.Error(err))
			}
		}
	}

	return models, nil
}

// TestConnection verifies that the generation service is reachable with
// the configured credentials.
func (s *ModelService) TestConnection(ctx context.Context) (*dto.ConnectionStatus, error) {
	if err := s.tester.TestConnection(ctx); err != nil {
		return nil, err
	}
	return &dto.ConnectionStatus{OK: true}, nil
}
