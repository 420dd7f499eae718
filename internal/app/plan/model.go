package plan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	TableName         = "plans"
	EventPlansChanged = "plans_changed"
	DefaultPriority   = 2
	DefaultCategory   = "Viaje"
)

var (
	ErrNotFound        = errors.New("plan not found")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidStatus   = errors.New("status must be one of wishlist, planned, done")
	ErrInvalidPriority = errors.New("priority must be between 1 and 3")
	ErrInvalidCost     = errors.New("est_cost must be a finite non-negative number")
	ErrInvalidBoard    = errors.New("board slug must not be empty")
)

// Categories are suggestions only; any string is accepted.
var Categories = []string{
	"Viaje",
	"Concierto",
	"Casa rural",
	"Restaurante",
	"Experiencia",
	"Hobby",
	"Otro",
}

type Status string

const (
	StatusWishlist Status = "wishlist"
	StatusPlanned  Status = "planned"
	StatusDone     Status = "done"
)

var Statuses = []Status{StatusWishlist, StatusPlanned, StatusDone}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusWishlist, StatusPlanned, StatusDone:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusWishlist:
		return "Wishlist"
	case StatusPlanned:
		return "Planificado"
	case StatusDone:
		return "Hecho"
	}
	return string(s)
}

type Plan struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	BoardSlug   string    `json:"board_slug" gorm:"not null;index:idx_plans_board_created,priority:1"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Location    *string   `json:"location"`
	EstCost     *float64  `json:"est_cost"`
	WhenText    *string   `json:"when_text"`
	Priority    int       `json:"priority" gorm:"not null;default:2"`
	Status      Status    `json:"status" gorm:"type:text;not null;default:'wishlist'"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index:idx_plans_board_created,priority:2"`
}

func (Plan) TableName() string {
	return TableName
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID != "" {
		return nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate plan id: %w", err)
	}
	p.ID = id.String()
	return nil
}

// Fields is the client-writable part of a Plan.
type Fields struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
	WhenText    *string  `json:"when_text"`
	EstCost     *float64 `json:"est_cost" binding:"omitempty,gte=0"`
	Priority    int      `json:"priority" binding:"omitempty,min=1,max=3"`
	Status      Status   `json:"status" binding:"omitempty,planstatus"`
}

// Normalize trims every string, turns blank optionals into nil, fills the
// priority and status defaults and validates the result.
func (f Fields) Normalize() (Fields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return f, ErrEmptyTitle
	}
	f.Description = optional(f.Description)
	f.Category = optional(f.Category)
	f.Location = optional(f.Location)
	f.WhenText = optional(f.WhenText)

	if f.Priority == 0 {
		f.Priority = DefaultPriority
	}
	if f.Priority < 1 || f.Priority > 3 {
		return f, ErrInvalidPriority
	}
	if f.Status == "" {
		f.Status = StatusWishlist
	}
	if !f.Status.Valid() {
		return f, ErrInvalidStatus
	}
	if f.EstCost != nil && (math.IsNaN(*f.EstCost) || math.IsInf(*f.EstCost, 0) || *f.EstCost < 0) {
		return f, ErrInvalidCost
	}
	return f, nil
}

func (f Fields) columns() map[string]interface{} {
	return map[string]interface{}{
		"title":       f.Title,
		"description": f.Description,
		"category":    f.Category,
		"location":    f.Location,
		"when_text":   f.WhenText,
		"est_cost":    f.EstCost,
		"priority":    f.Priority,
		"status":      f.Status,
	}
}

func (f Fields) newPlan(board string) *Plan {
	return &Plan{
		BoardSlug:   board,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Location:    f.Location,
		WhenText:    f.WhenText,
		EstCost:     f.EstCost,
		Priority:    f.Priority,
		Status:      f.Status,
	}
}

type StatusRequest struct {
	Status Status `json:"status" binding:"required,planstatus"`
}

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change describes one committed write on the plans table.
type Change struct {
	Type      ChangeType `json:"type"`
	Table     string     `json:"table"`
	BoardSlug string     `json:"board_slug"`
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"`
}

type ListResponse struct {
	Plans  []*Plan `json:"plans"`
	Counts Counts  `json:"counts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ParseCost turns free-form cost text into a stored amount. Blank,
// unparsable, non-finite and negative input all yield nil.
func ParseCost(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
