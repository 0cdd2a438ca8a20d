package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DaWei8/phasely/internal/db"
	"github.com/DaWei8/phasely/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo. conn may be a *sql.DB or a *sql.Tx.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, user_goal, duration, generated_plan, content_calendar, model_version, created_at, updated_at`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.StudyPlan) error {
	overview, err := marshalColumn("generated_plan", p.Overview)
	if err != nil {
		return err
	}
	calendar, err := marshalColumn("content_calendar", calendarOrEmpty(p.Calendar))
	if err != nil {
		return err
	}

	query := `INSERT INTO study_plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Goal,
		p.Duration,
		overview,
		calendar,
		p.ModelVersion,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting study plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.StudyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM study_plans WHERE id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlanRepo) ListRecent(ctx context.Context, limit int) ([]*domain.StudyPlan, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + planColumns + ` FROM study_plans ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent study plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.StudyPlan
	for rows.Next() {
		p, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM study_plans ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing study plan ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning study plan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study plan ids: %w", err)
	}
	return ids, nil
}

func (r *SQLitePlanRepo) UpdateCalendar(ctx context.Context, id string, items []domain.CalendarItem, updatedAt time.Time) error {
	calendar, err := marshalColumn("content_calendar", calendarOrEmpty(items))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE study_plans SET content_calendar = ?, updated_at = ? WHERE id = ?`,
		calendar, formatTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("updating study plan calendar: %w", err)
	}
	return requireAffected(res, "study plan")
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM study_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting study plan: %w", err)
	}
	return requireAffected(res, "study plan")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLitePlanRepo) scanPlan(row rowScanner) (*domain.StudyPlan, error) {
	var p domain.StudyPlan
	var overview, calendar, createdAtStr, updatedAtStr string

	err := row.Scan(&p.ID, &p.Goal, &p.Duration, &overview, &calendar, &p.ModelVersion, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("study plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning study plan: %w", err)
	}

	if err := unmarshalColumn("generated_plan", overview, &p.Overview); err != nil {
		return nil, err
	}
	if err := unmarshalColumn("content_calendar", calendar, &p.Calendar); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = time.Parse(timeLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

func calendarOrEmpty(items []domain.CalendarItem) []domain.CalendarItem {
	if items == nil {
		return []domain.CalendarItem{}
	}
	return items
}
