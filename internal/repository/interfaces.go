package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.StudyPlan) error
	GetByID(ctx context.Context, id string) (*domain.StudyPlan, error)
	// ListRecent returns at most limit plans, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.StudyPlan, error)
	// ListIDs returns every plan ID, newest first.
	ListIDs(ctx context.Context) ([]string, error)
	// UpdateCalendar replaces the calendar and stamps updated_at with updatedAt.
	UpdateCalendar(ctx context.Context, id string, items []domain.CalendarItem, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
