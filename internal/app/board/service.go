package board

import (
	"context"

	"wishboard/internal/app/plan"
)

type Service interface {
	Settings() Settings
	Summary(ctx context.Context, slug string) (*Summary, error)
}

type service struct {
	settings Settings
	plans    plan.Service
}

func NewService(settings Settings, plans plan.Service) Service {
	return &service{settings: settings, plans: plans}
}

func (s *service) Settings() Settings {
	return s.settings
}

func (s *service) Summary(ctx context.Context, slug string) (*Summary, error) {
	plans, err := s.plans.List(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &Summary{Slug: slug, Counts: plan.CountByStatus(plans)}, nil
}
