package seeder

import (
	"context"

	"wishboard/internal/app/plan"

	"go.uber.org/zap"
)

// Seeder fills an empty board with a few example plans. It writes through
// the plan service so the usual validation and change notifications apply.
type Seeder struct {
	plans  plan.Service
	logger *zap.Logger
}

func NewSeeder(plans plan.Service, logger *zap.Logger) *Seeder {
	return &Seeder{
		plans:  plans,
		logger: logger,
	}
}

func (s *Seeder) Seed(ctx context.Context, boardSlug string) error {
	s.logger.Info("Running database seeders...", zap.String("board_slug", boardSlug))

	existing, err := s.plans.List(ctx, boardSlug)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("Board already has plans, skipping seed", zap.Int("count", len(existing)))
		return nil
	}

	demo := []plan.Fields{
		{Title: "Fin de semana en una casa rural con chimenea", Category: ptr("Casa rural"), Location: ptr("Asturias"), EstCost: plan.ParseCost("250"), WhenText: ptr("Otoño"), Priority: 1},
		{Title: "Concierto al aire libre", Category: ptr("Concierto"), Location: ptr("Madrid"), WhenText: ptr("Cuando anuncien fechas"), Status: plan.StatusPlanned},
		{Title: "Escapada a Lisboa", Category: ptr("Viaje"), Location: ptr("Lisboa"), Description: ptr("Tranvía 28, pastéis de Belém"), Priority: 3},
	}
	for _, f := range demo {
		if _, err := s.plans.Create(ctx, boardSlug, f); err != nil {
			return err
		}
	}

	s.logger.Info("Seeded plans", zap.Int("count", len(demo)))
	return nil
}

func ptr(s string) *string {
	return &s
}
