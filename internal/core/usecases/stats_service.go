package usecases

import (
	"context"
	"fmt"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
)

// StatsService aggregates directory counts for the admin dashboard.
type StatsService struct {
	pois     ports.POIRepository
	comments ports.CommentRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(pois ports.POIRepository, comments ports.CommentRepository) *StatsService {
	return &StatsService{pois: pois, comments: comments}
}

// Dashboard returns per-category and per-status counts. TotalPOIs counts
// published POIs only; every category appears, with zero if empty.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	byCategory, err := s.pois.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	byStatus, err := s.pois.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	comments, err := s.comments.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	stats := &domain.DashboardStats{
		TotalPOIs:  byStatus[domain.POIStatusPublished],
		ByCategory: make(map[domain.Category]int, len(domain.Categories)),
		ByStatus:   map[domain.POIStatus]int{},
		Comments:   map[domain.CommentStatus]int{},
	}
	for _, c := range domain.Categories {
		stats.ByCategory[c] = byCategory[c]
	}
	for _, st := range []domain.POIStatus{domain.POIStatusPending, domain.POIStatusPublished, domain.POIStatusRejected} {
		stats.ByStatus[st] = byStatus[st]
	}
	for _, st := range []domain.CommentStatus{domain.CommentStatusPending, domain.CommentStatusApproved, domain.CommentStatusReported} {
		stats.Comments[st] = comments[st]
	}
	return stats, nil
}
