package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the registration form.
type RegisterStudentCommand struct {
	Username string
	Password string
	FullName string
	Email    string
}

// RegisterStudentHandler creates student accounts.
type RegisterStudentHandler struct {
	students student.Repository
	hasher   PasswordHasher
	enabled  func() bool
	log      *slog.Logger
}

// NewRegisterStudentHandler creates a RegisterStudentHandler.
// enabled is consulted on every call so the feature flag can be toggled.
func NewRegisterStudentHandler(students student.Repository, hasher PasswordHasher, enabled func() bool, log *slog.Logger) *RegisterStudentHandler {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &RegisterStudentHandler{
		students: students,
		hasher:   hasher,
		enabled:  enabled,
		log:      log.With(logger.Component("register_student")),
	}
}

// Handle registers a new non-admin student.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*student.Student, error) {
	if !h.enabled() {
		return nil, shared.ErrRegistrationClosed
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		fields := shared.FieldErrors{}
		fields.Add("password", err.Error())
		return nil, fields
	}

	s, err := student.NewStudent(student.NewStudentParams{
		Username:     cmd.Username,
		PasswordHash: hash,
		FullName:     cmd.FullName,
		Email:        cmd.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, s); err != nil {
		return nil, err
	}

	h.log.InfoContext(ctx, "student registered", logger.StudentID(s.ID.Int64()), slog.String("username", s.Username))
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateCommand contains login credentials.
type AuthenticateCommand struct {
	Username string
	Password string
}

// AuthenticateResult carries the issued token.
type AuthenticateResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Student   *student.Student `json:"-"`
}

// AuthenticateHandler verifies credentials and issues tokens.
type AuthenticateHandler struct {
	students student.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewAuthenticateHandler creates an AuthenticateHandler.
func NewAuthenticateHandler(students student.Repository, hasher PasswordHasher, tokens TokenIssuer) *AuthenticateHandler {
	return &AuthenticateHandler{students: students, hasher: hasher, tokens: tokens}
}

// Handle returns ErrInvalidCredentials for an unknown user or wrong password
// alike.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*AuthenticateResult, error) {
	s, err := h.students.GetByUsername(ctx, shared.NormalizeUsername(cmd.Username))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := h.hasher.Compare(s.PasswordHash, cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := h.tokens.Issue(s.ID, s.Username, s.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("authenticate: failed to issue token: %w", err)
	}

	return &AuthenticateResult{Token: token, ExpiresAt: expiresAt, Student: s}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEED ADMIN
// ══════════════════════════════════════════════════════════════════════════════

// SeedAdminCommand describes the default admin account.
type SeedAdminCommand struct {
	Username string
	Password string
	FullName string
}

// SeedAdminHandler creates the default admin if it is missing.
type SeedAdminHandler struct {
	students student.Repository
	hasher   PasswordHasher
	log      *slog.Logger
}

// NewSeedAdminHandler creates a SeedAdminHandler.
func NewSeedAdminHandler(students student.Repository, hasher PasswordHasher, log *slog.Logger) *SeedAdminHandler {
	return &SeedAdminHandler{students: students, hasher: hasher, log: log.With(logger.Component("seed_admin"))}
}

// Handle is idempotent. It reports whether an account was created.
func (h *SeedAdminHandler) Handle(ctx context.Context, cmd SeedAdminCommand) (bool, error) {
	exists, err := h.students.ExistsByUsername(ctx, shared.NormalizeUsername(cmd.Username))
	if err != nil {
		return false, fmt.Errorf("seed_admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return false, fmt.Errorf("seed_admin: %w", err)
	}

	fullName := cmd.FullName
	if fullName == "" {
		fullName = "Administrator"
	}

	admin, err := student.NewStudent(student.NewStudentParams{
		Username:     cmd.Username,
		PasswordHash: hash,
		FullName:     fullName,
		IsAdmin:      true,
	})
	if err != nil {
		return false, fmt.Errorf("seed_admin: %w", err)
	}

	if err := h.students.Create(ctx, admin); err != nil {
		// Another instance won the race.
		if errors.Is(err, shared.ErrStudentAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed_admin: %w", err)
	}

	h.log.InfoContext(ctx, "default admin created", slog.String("username", admin.Username))
	return true, nil
}
