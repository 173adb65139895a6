package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// ScheduleRepository implements schedule.Repository.
type ScheduleRepository struct {
	conn *Connection
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(conn *Connection) *ScheduleRepository {
	return &ScheduleRepository{conn: conn}
}

// Create inserts a schedule and its items in one transaction.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO schedules (student_id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, s.StudentID.Int64(), s.Name, nullString(s.Description), s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrStudentNotFound
			}
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		return insertItems(ctx, tx, s)
	})
}

// Get returns a schedule with its items.
func (r *ScheduleRepository) Get(ctx context.Context, id int64) (*schedule.Schedule, error) {
	var s schedule.Schedule
	var studentID int64
	var description *string

	err := r.conn.QueryRow(ctx, `
		SELECT id, student_id, name, description, created_at, updated_at
		FROM schedules WHERE id = $1
	`, id).Scan(&s.ID, &studentID, &s.Name, &description, &s.CreatedAt, &s.UpdatedAt)
	if IsNoRows(err) {
		return nil, shared.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	s.StudentID = shared.StudentID(studentID)
	s.Description = deref(description)

	items, err := listItems(ctx, r.conn, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return &s, nil
}

// ListByStudent returns a student's schedules, newest first.
func (r *ScheduleRepository) ListByStudent(ctx context.Context, studentID shared.StudentID) ([]*schedule.Schedule, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, student_id, name, description, created_at, updated_at
		FROM schedules WHERE student_id = $1
		ORDER BY created_at DESC, id DESC
	`, studentID.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	var schedules []*schedule.Schedule
	var ids []int64
	for rows.Next() {
		var s schedule.Schedule
		var sid int64
		var description *string
		if err := rows.Scan(&s.ID, &sid, &s.Name, &description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		s.StudentID = shared.StudentID(sid)
		s.Description = deref(description)
		schedules = append(schedules, &s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	if len(ids) == 0 {
		return schedules, nil
	}
	items, err := listItems(ctx, r.conn, ids)
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
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		s.UpdatedAt = time.Now().UTC()
		tag, err := tx.Exec(ctx, `
			UPDATE schedules SET name = $1, description = $2, updated_at = $3
			WHERE id = $4
		`, s.Name, nullString(s.Description), s.UpdatedAt, s.ID)
		if err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrScheduleNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM schedule_items WHERE schedule_id = $1`, s.ID); err != nil {
			return fmt.Errorf("failed to clear schedule items: %w", err)
		}
		return insertItems(ctx, tx, s)
	})
}

// Delete removes a schedule. Items and completions cascade.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrScheduleNotFound
	}
	return nil
}

// ItemOwner returns the student that owns an item's schedule.
func (r *ScheduleRepository) ItemOwner(ctx context.Context, itemID int64) (shared.StudentID, error) {
	var owner int64
	err := r.conn.QueryRow(ctx, `
		SELECT s.student_id
		FROM schedule_items i
		JOIN schedules s ON s.id = i.schedule_id
		WHERE i.id = $1
	`, itemID).Scan(&owner)
	if IsNoRows(err) {
		return 0, shared.ErrScheduleItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up schedule item: %w", err)
	}
	return shared.StudentID(owner), nil
}

// UpsertCompletion inserts or replaces the mark for (item, date).
func (r *ScheduleRepository) UpsertCompletion(ctx context.Context, c *schedule.Completion) error {
	err := r.conn.QueryRow(ctx, `
		INSERT INTO schedule_completions (schedule_item_id, completion_date, is_completed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (schedule_item_id, completion_date)
		DO UPDATE SET is_completed = EXCLUDED.is_completed, notes = EXCLUDED.notes
		RETURNING id, created_at
	`, c.ItemID, c.Date, c.IsCompleted, nullString(c.Notes), c.CreatedAt).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrScheduleItemNotFound
		}
		return fmt.Errorf("failed to save completion: %w", err)
	}
	return nil
}

// ListCompletions returns marks for a schedule up to a date, newest first.
func (r *ScheduleRepository) ListCompletions(ctx context.Context, scheduleID int64, upTo time.Time) ([]*schedule.Completion, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT c.id, c.schedule_item_id, c.completion_date, c.is_completed, c.notes, c.created_at
		FROM schedule_completions c
		JOIN schedule_items i ON i.id = c.schedule_item_id
		WHERE i.schedule_id = $1 AND c.completion_date <= $2
		ORDER BY c.completion_date DESC, c.id DESC
	`, scheduleID, upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	var out []*schedule.Completion
	for rows.Next() {
		var c schedule.Completion
		var notes *string
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Date, &c.IsCompleted, &notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		c.Date = *normalizeDate(&c.Date)
		c.Notes = deref(notes)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, s *schedule.Schedule) error {
	for i := range s.Items {
		item := &s.Items[i]
		item.ScheduleID = s.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO schedule_items (schedule_id, day_of_week, start_time, end_time, subject, location, instructor)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, s.ID, item.DayOfWeek, item.StartTime, item.EndTime, item.Subject,
			nullString(item.Location), nullString(item.Instructor)).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert schedule item: %w", err)
		}
	}
	return nil
}

func listItems(ctx context.Context, q Querier, scheduleIDs []int64) (map[int64][]schedule.Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, schedule_id, day_of_week, start_time, end_time, subject, location, instructor
		FROM schedule_items
		WHERE schedule_id = ANY($1)
		ORDER BY day_of_week, start_time, id
	`, scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]schedule.Item, len(scheduleIDs))
	for rows.Next() {
		var it schedule.Item
		var location, instructor *string
		if err := rows.Scan(&it.ID, &it.ScheduleID, &it.DayOfWeek, &it.StartTime, &it.EndTime, &it.Subject, &location, &instructor); err != nil {
			return nil, fmt.Errorf("failed to scan schedule item: %w", err)
		}
		it.Location = deref(location)
		it.Instructor = deref(instructor)
		items[it.ScheduleID] = append(items[it.ScheduleID], it)
	}
	return items, rows.Err()
}
