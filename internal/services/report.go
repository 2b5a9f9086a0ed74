package services

import (
	"context"

	"github.com/ivanjaven/extension/types"
)

// ReportRepository defines the population report queries.
type ReportRepository interface {
	CountByAgeBracket(ctx context.Context) ([]types.AgeBracketCount, error)
	CountByStreet(ctx context.Context) ([]types.StreetCount, error)
}

// ReportService encapsulates the population reports.
type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) PopulationByAge(ctx context.Context) ([]types.AgeBracketCount, error) {
	return s.repo.CountByAgeBracket(ctx)
}

func (s *ReportService) PopulationByStreet(ctx context.Context) ([]types.StreetCount, error) {
	return s.repo.CountByStreet(ctx)
}
