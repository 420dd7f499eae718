package plan

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalid_text_representation, raised for malformed uuid literals
const pgInvalidTextRepresentation = "22P02"

type Repository interface {
	ListByBoard(ctx context.Context, boardSlug string) ([]*Plan, error)
	GetByID(ctx context.Context, id string) (*Plan, error)
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, id string, fields Fields) (*Plan, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Plan, error)
	Delete(ctx context.Context, id string) (*Plan, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByBoard(ctx context.Context, boardSlug string) ([]*Plan, error) {
	var plans []*Plan
	err := r.db.WithContext(ctx).
		Where("board_slug = ?", boardSlug).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*Plan{}
	}
	return plans, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &plan, nil
}

func (r *repository) Create(ctx context.Context, plan *Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// Update overwrites every writable column; id, board_slug and created_at
// are never part of the statement.
func (r *repository) Update(ctx context.Context, id string, fields Fields) (*Plan, error) {
	return r.updateColumns(ctx, id, fields.columns())
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) (*Plan, error) {
	return r.updateColumns(ctx, id, map[string]interface{}{"status": status})
}

func (r *repository) updateColumns(ctx context.Context, id string, columns map[string]interface{}) (*Plan, error) {
	res := r.db.WithContext(ctx).
		Model(&Plan{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) (*Plan, error) {
	var deleted *Plan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan Plan
		if err := tx.Where("id = ?", id).First(&plan).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Plan{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = &plan
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return deleted, nil
}

func mapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return ErrNotFound
	}
	return err
}
