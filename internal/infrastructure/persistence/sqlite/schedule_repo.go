package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// ScheduleRepository implements schedule.Repository.
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleRow struct {
	ID          int64          `db:"id"`
	StudentID   int64          `db:"student_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   int64          `db:"created_at"`
	UpdatedAt   int64          `db:"updated_at"`
}

func (r scheduleRow) toDomain() *schedule.Schedule {
	return &schedule.Schedule{
		ID:          r.ID,
		StudentID:   shared.StudentID(r.StudentID),
		Name:        r.Name,
		Description: r.Description.String,
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
}

type itemRow struct {
	ID         int64          `db:"id"`
	ScheduleID int64          `db:"schedule_id"`
	DayOfWeek  int            `db:"day_of_week"`
	StartTime  string         `db:"start_time"`
	EndTime    string         `db:"end_time"`
	Subject    string         `db:"subject"`
	Location   sql.NullString `db:"location"`
	Instructor sql.NullString `db:"instructor"`
}

type completionRow struct {
	ID          int64          `db:"id"`
	ItemID      int64          `db:"schedule_item_id"`
	Date        string         `db:"completion_date"`
	IsCompleted bool           `db:"is_completed"`
	Notes       sql.NullString `db:"notes"`
	CreatedAt   int64          `db:"created_at"`
}

const scheduleColumns = `id, student_id, name, description, created_at, updated_at`

// Create inserts a schedule and its items in one transaction.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO schedules (student_id, name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			s.StudentID.Int64(), s.Name, nullString(s.Description), toMillis(s.CreatedAt), toMillis(s.UpdatedAt))
		if err != nil {
			if isForeignKeyViolation(err) {
				return shared.ErrStudentNotFound
			}
			return fmt.Errorf("create schedule: %w", err)
		}
		if s.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return insertItems(ctx, tx, s)
	})
}

// Get returns a schedule with its items.
func (r *ScheduleRepository) Get(ctx context.Context, id int64) (*schedule.Schedule, error) {
	var row scheduleRow
	if err := r.db.db.GetContext(ctx, &row, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id); err != nil {
		if isNoRows(err) {
			return nil, shared.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	s := row.toDomain()
	items, err := r.listItems(ctx, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// ListByStudent returns a student's schedules, newest first.
func (r *ScheduleRepository) ListByStudent(ctx context.Context, studentID shared.StudentID) ([]*schedule.Schedule, error) {
	var rows []scheduleRow
	err := r.db.db.SelectContext(ctx, &rows,
		`SELECT `+scheduleColumns+` FROM schedules WHERE student_id = ? ORDER BY created_at DESC, id DESC`,
		studentID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	schedules := make([]*schedule.Schedule, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.toDomain())
		ids = append(ids, row.ID)
	}

	items, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range schedules {
		s.Items = items[s.ID]
	}
	return schedules, nil
}

// Update rewrites a schedule and replaces its items.
func (r *ScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		s.UpdatedAt = time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`UPDATE schedules SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
			s.Name, nullString(s.Description), toMillis(s.UpdatedAt), s.ID)
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update schedule: %w", err)
		} else if n == 0 {
			return shared.ErrScheduleNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_items WHERE schedule_id = ?`, s.ID); err != nil {
			return fmt.Errorf("clear schedule items: %w", err)
		}
		return insertItems(ctx, tx, s)
	})
}

// Delete removes a schedule. Items and completions cascade.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if n == 0 {
		return shared.ErrScheduleNotFound
	}
	return nil
}

// ItemOwner returns the student that owns an item's schedule.
func (r *ScheduleRepository) ItemOwner(ctx context.Context, itemID int64) (shared.StudentID, error) {
	var owner int64
	err := r.db.db.GetContext(ctx, &owner, `
		SELECT s.student_id
		FROM schedule_items i
		JOIN schedules s ON s.id = i.schedule_id
		WHERE i.id = ?`, itemID)
	if err != nil {
		if isNoRows(err) {
			return 0, shared.ErrScheduleItemNotFound
		}
		return 0, fmt.Errorf("look up schedule item: %w", err)
	}
	return shared.StudentID(owner), nil
}

// UpsertCompletion inserts or replaces the mark for (item, date).
func (r *ScheduleRepository) UpsertCompletion(ctx context.Context, c *schedule.Completion) error {
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_completions (schedule_item_id, completion_date, is_completed, notes, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (schedule_item_id, completion_date)
			DO UPDATE SET is_completed = excluded.is_completed, notes = excluded.notes`,
			c.ItemID, c.Date.Format(dateLayout), c.IsCompleted, nullString(c.Notes), toMillis(c.CreatedAt))
		if err != nil {
			if isForeignKeyViolation(err) {
				return shared.ErrScheduleItemNotFound
			}
			return fmt.Errorf("save completion: %w", err)
		}

		var row completionRow
		err = tx.GetContext(ctx, &row, `
			SELECT id, schedule_item_id, completion_date, is_completed, notes, created_at
			FROM schedule_completions
			WHERE schedule_item_id = ? AND completion_date = ?`,
			c.ItemID, c.Date.Format(dateLayout))
		if err != nil {
			return fmt.Errorf("reload completion: %w", err)
		}
		c.ID = row.ID
		c.CreatedAt = fromMillis(row.CreatedAt)
		return nil
	})
}

// ListCompletions returns marks for a schedule up to a date, newest first.
func (r *ScheduleRepository) ListCompletions(ctx context.Context, scheduleID int64, upTo time.Time) ([]*schedule.Completion, error) {
	var rows []completionRow
	err := r.db.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.schedule_item_id, c.completion_date, c.is_completed, c.notes, c.created_at
		FROM schedule_completions c
		JOIN schedule_items i ON i.id = c.schedule_item_id
		WHERE i.schedule_id = ? AND c.completion_date <= ?
		ORDER BY c.completion_date DESC, c.id DESC`,
		scheduleID, upTo.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}

	out := make([]*schedule.Completion, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, &schedule.Completion{
			ID:          row.ID,
			ItemID:      row.ItemID,
			Date:        date,
			IsCompleted: row.IsCompleted,
			Notes:       row.Notes.String,
			CreatedAt:   fromMillis(row.CreatedAt),
		})
	}
	return out, nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, s *schedule.Schedule) error {
	for i := range s.Items {
		item := &s.Items[i]
		item.ScheduleID = s.ID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_items (schedule_id, day_of_week, start_time, end_time, subject, location, instructor)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, item.DayOfWeek, item.StartTime, item.EndTime, item.Subject,
			nullString(item.Location), nullString(item.Instructor))
		if err != nil {
			return fmt.Errorf("insert schedule item: %w", err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert schedule item: %w", err)
		}
	}
	return nil
}

func (r *ScheduleRepository) listItems(ctx context.Context, scheduleIDs []int64) (map[int64][]schedule.Item, error) {
	query, args, err := sqlx.In(`
		SELECT id, schedule_id, day_of_week, start_time, end_time, subject, location, instructor
		FROM schedule_items
		WHERE schedule_id IN (?)
		ORDER BY day_of_week, start_time, id`, scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(schedule_items) > %w", err)
	}

	var rows []itemRow
	if err := r.db.db.SelectContext(ctx, &rows, r.db.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list schedule items: %w", err)
	}

	items := make(map[int64][]schedule.Item, len(scheduleIDs))
	for _, row := range rows {
		items[row.ScheduleID] = append(items[row.ScheduleID], schedule.Item{
			ID:         row.ID,
			ScheduleID: row.ScheduleID,
			DayOfWeek:  row.DayOfWeek,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			Subject:    row.Subject,
			Location:   row.Location.String,
			Instructor: row.Instructor.String,
		})
	}
	return items, nil
}
