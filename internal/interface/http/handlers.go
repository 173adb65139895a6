package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/educationaltr/study-tracker/internal/application/command"
	"github.com/educationaltr/study-tracker/internal/application/query"
	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/internal/domain/streak"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		writeEnvelope(w, http.StatusServiceUnavailable, JSONResponse{Success: false, Data: status, Meta: newMeta(r)})
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSONError(w, r, http.StatusServiceUnavailable, codeUnavailable, status.Message, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive", "uptime": s.Uptime().String()})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, query.NewStudentDTO(created))
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Student   query.StudentDTO `json:"student"`
}

// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Authenticate.Handle(r.Context(), command.AuthenticateCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Student:   query.NewStudentDTO(result.Student),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD, STREAK, STATS
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	studentID, err := optionalStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Dashboard.Handle(r.Context(), query.GetDashboardQuery{
		Actor:     actorFrom(r.Context()),
		StudentID: studentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if result.Streak.ShowWarning {
		markWarningShown(w)
	}
	writeJSON(w, r, http.StatusOK, result)
}

// GET /api/v1/streak
func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	studentID, err := optionalStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.deps.Streak.Handle(r.Context(), actorFrom(r.Context()), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view.ShowWarning {
		markWarningShown(w)
	}
	writeJSON(w, r, http.StatusOK, view)
}

// GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	studentID, err := optionalStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Stats.Handle(r.Context(), actorFrom(r.Context()), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSIONS & EXAMS
// ══════════════════════════════════════════════════════════════════════════════

type recordSessionResponse struct {
	Session       query.SessionDTO `json:"session"`
	StreakOutcome streak.Outcome   `json:"streak_outcome,omitempty"`
	StreakMessage string           `json:"streak_message,omitempty"`
	Streak        *streak.State    `json:"streak,omitempty"`
	StreakError   string           `json:"streak_error,omitempty"`
}

// POST /api/v1/sessions
func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.recordSession(w, r, shared.StudentID(req.StudentID), req)
}

// POST /api/v1/admin/students/{id}/sessions
func (s *Server) handleAdminRecordSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sessionRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.recordSession(w, r, id, req)
}

func (s *Server) recordSession(w http.ResponseWriter, r *http.Request, studentID shared.StudentID, req sessionRequest) {
	var date time.Time
	if req.Date != "" {
		// Format already checked by the validator.
		date, _ = timeutil.ParseDate(req.Date)
	}

	result, err := s.deps.RecordSession.Handle(r.Context(), command.RecordSessionCommand{
		Actor:        actorFrom(r.Context()),
		StudentID:    studentID,
		Date:         date,
		Subject:      req.Subject,
		Hours:        req.Hours,
		Efficiency:   req.Efficiency,
		Notes:        req.Notes,
		Difficulties: req.Difficulties,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, recordSessionResponse{
		Session:       query.NewSessionDTO(result.Session),
		StreakOutcome: result.Outcome,
		StreakMessage: result.Message,
		Streak:        result.Streak,
		StreakError:   result.StreakError,
	})
}

// DELETE /api/v1/sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.deps.DeleteRecord.DeleteSession(r.Context(), command.DeleteRecordCommand{Actor: actorFrom(r.Context()), ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/exams
func (s *Server) handleAddExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var examDate *time.Time
	if req.ExamDate != "" {
		d, _ := timeutil.ParseDate(req.ExamDate)
		examDate = &d
	}

	exam, err := s.deps.AddExam.Handle(r.Context(), command.AddExamCommand{
		Actor:     actorFrom(r.Context()),
		StudentID: shared.StudentID(req.StudentID),
		Name:      req.Name,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		ExamDate:  examDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, query.NewExamDTO(exam))
}

// DELETE /api/v1/exams/{id}
func (s *Server) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.deps.DeleteRecord.DeleteExam(r.Context(), command.DeleteRecordCommand{Actor: actorFrom(r.Context()), ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/grade/calculate
//
// An unreachable target is still a 200: the plan says so in "reachable".
func (s *Server) handleCalculateGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.deps.CalculateGrade.Handle(r.Context(), query.CalculateGradeQuery{
		Actor:          actorFrom(r.Context()),
		TargetAverage:  req.TargetAverage,
		RemainingExams: req.RemainingExams,
	})
	if err != nil && !errors.Is(err, shared.ErrTargetUnreachable) {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/leaderboard?metric=&limit=
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Leaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Metric: r.URL.Query().Get("metric"),
		Limit:  limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULES
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/schedules
func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	studentID, err := optionalStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.deps.ScheduleQuery.List(r.Context(), actorFrom(r.Context()), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list)
}

// GET /api/v1/schedules/active
func (s *Server) handleActiveSchedule(w http.ResponseWriter, r *http.Request) {
	studentID, err := optionalStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.deps.ScheduleQuery.Active(r.Context(), actorFrom(r.Context()), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// GET /api/v1/admin/students/{id}/schedule
func (s *Server) handleAdminActiveSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.deps.ScheduleQuery.Active(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// GET /api/v1/schedules/{id}
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.deps.ScheduleQuery.Get(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// POST /api/v1/schedules
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	s.saveSchedule(w, r, 0, http.StatusCreated)
}

// PUT /api/v1/schedules/{id}
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.saveSchedule(w, r, id, http.StatusOK)
}

func (s *Server) saveSchedule(w http.ResponseWriter, r *http.Request, id int64, status int) {
	var req scheduleRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]schedule.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, schedule.ItemInput{
			DayOfWeek:  it.DayOfWeek,
			StartTime:  it.StartTime,
			EndTime:    it.EndTime,
			Subject:    it.Subject,
			Location:   it.Location,
			Instructor: it.Instructor,
		})
	}

	saved, err := s.deps.Schedules.Save(r.Context(), command.SaveScheduleCommand{
		Actor:       actorFrom(r.Context()),
		StudentID:   shared.StudentID(req.StudentID),
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Items:       items,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, status, query.NewScheduleDTO(saved))
}

// DELETE /api/v1/schedules/{id}
func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Schedules.Delete(r.Context(), actorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/schedule-items/{id}/complete
func (s *Server) handleCompleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req completeItemRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		date, _ = timeutil.ParseDate(req.Date)
	}
	completed := true
	if req.IsCompleted != nil {
		completed = *req.IsCompleted
	}

	c, err := s.deps.Schedules.CompleteItem(r.Context(), command.CompleteItemCommand{
		Actor:       actorFrom(r.Context()),
		ItemID:      id,
		Date:        date,
		IsCompleted: completed,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, query.NewCompletionDTO(c))
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/admin/students
func (s *Server) handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.Admin.Overview(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, rows)
}

// GET /api/v1/admin/students/{id}
func (s *Server) handleAdminStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathStudentID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.deps.Admin.Detail(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARAMETER HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func pathID(r *http.Request) (int64, error) {
	return shared.ParseID(mux.Vars(r)["id"])
}

func pathStudentID(r *http.Request) (shared.StudentID, error) {
	return shared.ParseStudentID(mux.Vars(r)["id"])
}

// optionalStudentID reads ?student_id=, zero when absent.
func optionalStudentID(r *http.Request) (shared.StudentID, error) {
	raw := r.URL.Query().Get("student_id")
	if raw == "" {
		return 0, nil
	}
	return shared.ParseStudentID(raw)
}

// queryInt reads an optional integer query parameter, zero when absent.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewDomainError("http", "Query", shared.ErrInvalidInput, key+" must be an integer")
	}
	return v, nil
}
