package postgres

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_students", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_study_records", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_schedules", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(255) NOT NULL UNIQUE,
    password TEXT NOT NULL,
    full_name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_study_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_current_streak CHECK (current_streak >= 0),
    CONSTRAINT valid_longest_streak CHECK (longest_streak >= current_streak)
);

CREATE INDEX IF NOT EXISTS idx_students_current_streak ON students(current_streak DESC) WHERE NOT is_admin;
`

const migration001Down = `
DROP TABLE IF EXISTS students CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDY SESSIONS AND EXAM RESULTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS study_sessions (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    subject VARCHAR(255) NOT NULL,
    hours REAL NOT NULL,
    efficiency INTEGER NOT NULL,
    notes TEXT,
    difficulties TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_hours CHECK (hours > 0),
    CONSTRAINT valid_efficiency CHECK (efficiency BETWEEN 0 AND 100)
);

CREATE INDEX IF NOT EXISTS idx_study_sessions_student_id ON study_sessions(student_id);
CREATE INDEX IF NOT EXISTS idx_study_sessions_date ON study_sessions(date);

CREATE TABLE IF NOT EXISTS exam_results (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    exam_name VARCHAR(255) NOT NULL,
    score REAL NOT NULL,
    max_score REAL NOT NULL DEFAULT 100,
    exam_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_max_score CHECK (max_score > 0)
);

CREATE INDEX IF NOT EXISTS idx_exam_results_student_id ON exam_results(student_id);
`

const migration002Down = `
DROP TABLE IF EXISTS exam_results;
DROP TABLE IF EXISTS study_sessions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE SCHEDULES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS schedules (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_schedules_student_id ON schedules(student_id, created_at DESC);

CREATE TABLE IF NOT EXISTS schedule_items (
    id BIGSERIAL PRIMARY KEY,
    schedule_id BIGINT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    day_of_week SMALLINT NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    subject VARCHAR(255) NOT NULL,
    location VARCHAR(255),
    instructor VARCHAR(255),

    CONSTRAINT valid_day_of_week CHECK (day_of_week BETWEEN 0 AND 6)
);

CREATE INDEX IF NOT EXISTS idx_schedule_items_schedule_id ON schedule_items(schedule_id);

CREATE TABLE IF NOT EXISTS schedule_completions (
    id BIGSERIAL PRIMARY KEY,
    schedule_item_id BIGINT NOT NULL REFERENCES schedule_items(id) ON DELETE CASCADE,
    completion_date DATE NOT NULL,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    notes TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE (schedule_item_id, completion_date)
);
`

const migration003Down = `
DROP TABLE IF EXISTS schedule_completions;
DROP TABLE IF EXISTS schedule_items;
DROP TABLE IF EXISTS schedules;
`
