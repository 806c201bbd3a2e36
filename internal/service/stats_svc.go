package service

import (
	"context"
	"encoding/json"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/repository"
)

// StatsService serves the read-only transparency views, cache-aside.
type StatsService struct {
	repo  *repository.StatsRepo
	cache *CacheService
}

func NewStatsService(repo *repository.StatsRepo, cache *CacheService) *StatsService {
	return &StatsService{repo: repo, cache: cache}
}

// Dashboard returns the transparency dashboard aggregates.
func (s *StatsService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDashboard(ctx); err != nil {
			middleware.Logger.Warn().Err(err).Msg("stats: dashboard cache get failed")
		} else if cached != nil {
			var stats repository.DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, stats); err != nil {
			middleware.Logger.Warn().Err(err).Msg("stats: dashboard cache set failed")
		}
	}
	return stats, nil
}

// Summary returns the headline statistics.
func (s *StatsService) Summary(ctx context.Context) (*repository.SummaryStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSummary(ctx); err != nil {
			middleware.Logger.Warn().Err(err).Msg("stats: summary cache get failed")
		} else if cached != nil {
			var stats repository.SummaryStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, stats); err != nil {
			middleware.Logger.Warn().Err(err).Msg("stats: summary cache set failed")
		}
	}
	return stats, nil
}
