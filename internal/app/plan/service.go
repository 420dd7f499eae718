package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wishboard/internal/providers/redis"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	List(ctx context.Context, boardSlug string) ([]*Plan, error)
	Get(ctx context.Context, id string) (*Plan, error)
	Create(ctx context.Context, boardSlug string, fields Fields) (*Plan, error)
	Update(ctx context.Context, id string, fields Fields) (*Plan, error)
	SetStatus(ctx context.Context, id string, status Status) (*Plan, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	redisP      *redis.RedisProvider
	notifier    Notifier
	logger      *zap.SugaredLogger
	cachePrefix string
	loads       singleflight.Group
}

// NewService wires the plan store. redisP may be nil, in which case every
// list goes to the repository.
func NewService(repo Repository, redisP *redis.RedisProvider, notifier Notifier, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		redisP:      redisP,
		notifier:    notifier,
		logger:      logger.Sugar(),
		cachePrefix: "plans:board",
	}
}

func (s *service) List(ctx context.Context, boardSlug string) ([]*Plan, error) {
	boardSlug = strings.TrimSpace(boardSlug)
	if boardSlug == "" {
		return nil, ErrInvalidBoard
	}
	key := s.cacheKey(boardSlug)

	if s.redisP != nil {
		var cached []*Plan
		err := s.redisP.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warnw("Plan cache read failed", "board_slug", boardSlug, "error", err)
		}
	}

	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		// the load outlives any single caller
		loadCtx := context.WithoutCancel(ctx)

		gen, genErr := s.generation(loadCtx, boardSlug)
		plans, err := s.repo.ListByBoard(loadCtx, boardSlug)
		if err != nil {
			return nil, err
		}
		if len(plans) > 0 && s.redisP != nil && genErr == nil {
			stored, err := s.redisP.SetJSONIfGeneration(loadCtx, key, plans, s.genKey(boardSlug), gen)
			switch {
			case err != nil:
				s.logger.Warnw("Plan cache write failed", "board_slug", boardSlug, "error", err)
			case !stored:
				s.logger.Debugw("Plan cache fill skipped, board changed during load", "board_slug", boardSlug)
			}
		}
		return plans, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return v.([]*Plan), nil
}

func (s *service) Get(ctx context.Context, id string) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, boardSlug string, fields Fields) (*Plan, error) {
	boardSlug = strings.TrimSpace(boardSlug)
	if boardSlug == "" {
		return nil, ErrInvalidBoard
	}
	fields, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	plan := fields.newPlan(boardSlug)
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.committed(ctx, ChangeInsert, plan)
	return plan, nil
}

func (s *service) Update(ctx context.Context, id string, fields Fields) (*Plan, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, wrapUnlessNotFound("failed to update plan", err)
	}

	s.committed(ctx, ChangeUpdate, plan)
	return plan, nil
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Plan, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	plan, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, wrapUnlessNotFound("failed to update plan status", err)
	}

	s.committed(ctx, ChangeUpdate, plan)
	return plan, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	plan, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapUnlessNotFound("failed to delete plan", err)
	}

	s.committed(ctx, ChangeDelete, plan)
	return nil
}

// committed invalidates the board cache and announces the write.
func (s *service) committed(ctx context.Context, kind ChangeType, plan *Plan) {
	s.invalidateCache(ctx, plan.BoardSlug)

	s.logger.Debugw("Plan change committed",
		"type", kind,
		"plan_id", plan.ID,
		"board_slug", plan.BoardSlug,
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, Change{
			Type:      kind,
			Table:     TableName,
			BoardSlug: plan.BoardSlug,
			ID:        plan.ID,
			Timestamp: time.Now().UTC().Unix(),
		})
	}
}

// invalidateCache bumps the board generation before deleting the cached
// list, so a load that read the database before this write cannot store
// its rows afterwards.
func (s *service) invalidateCache(ctx context.Context, boardSlug string) {
	if s.redisP == nil {
		return
	}
	if err := s.redisP.Incr(ctx, s.genKey(boardSlug)).Err(); err != nil {
		s.logger.Warnw("Failed to bump plan cache generation", "board_slug", boardSlug, "error", err)
	}
	if err := s.redisP.Del(ctx, s.cacheKey(boardSlug)).Err(); err != nil {
		s.logger.Warnw("Failed to invalidate plan cache", "board_slug", boardSlug, "error", err)
	}
}

func (s *service) cacheKey(boardSlug string) string {
	return fmt.Sprintf("%s:%s", s.cachePrefix, boardSlug)
}

func (s *service) genKey(boardSlug string) string {
	return fmt.Sprintf("plans:gen:%s", boardSlug)
}

func (s *service) generation(ctx context.Context, boardSlug string) (string, error) {
	if s.redisP == nil {
		return "", nil
	}
	gen, err := s.redisP.Generation(ctx, s.genKey(boardSlug))
	if err != nil {
		s.logger.Warnw("Plan cache generation read failed", "board_slug", boardSlug, "error", err)
	}
	return gen, err
}

func wrapUnlessNotFound(msg string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
