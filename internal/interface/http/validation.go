package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

const maxBodyBytes = 1 << 20

// Validator checks decoded request bodies and renders English messages
// keyed by JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator with the English translations and the
// custom tags used by the request types.
func NewValidator() *Validator {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := timeutil.ParseDate(fl.Field().String())
		return err == nil
	})
	registerTranslation(validate, translator, "date", "{0} must be a date in YYYY-MM-DD format")

	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := timeutil.ParseClock(fl.Field().String())
		return err == nil
	})
	registerTranslation(validate, translator, "clock", "{0} must be a time in HH:MM format")

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v, returning shared.FieldErrors on failure.
func (v *Validator) Struct(target any) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := shared.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fieldPath(fe), fe.Translate(v.translator))
	}
	return fields
}

// fieldPath drops the top-level struct name: "items[0].subject".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewDomainError("http", "Decode", shared.ErrInvalidInput, "request body is required")
		}
		return shared.WrapError("http", "Decode", shared.ErrInvalidInput, "malformed JSON body", err)
	}
	return s.validator.Struct(dst)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionRequest struct {
	StudentID    int64   `json:"student_id" validate:"omitempty,gt=0"`
	Date         string  `json:"date" validate:"required,date"`
	Subject      string  `json:"subject" validate:"required,max=100"`
	Hours        float64 `json:"hours" validate:"gt=0,lte=24"`
	Efficiency   *int    `json:"efficiency" validate:"omitempty,min=0,max=100"`
	Notes        string  `json:"notes" validate:"max=2000"`
	Difficulties string  `json:"difficulties" validate:"max=2000"`
}

type examRequest struct {
	StudentID int64    `json:"student_id" validate:"omitempty,gt=0"`
	Name      string   `json:"name" validate:"required,max=255"`
	Score     float64  `json:"score" validate:"gte=0"`
	MaxScore  *float64 `json:"max_score" validate:"omitempty,gt=0"`
	ExamDate  string   `json:"exam_date" validate:"omitempty,date"`
}

type gradeRequest struct {
	TargetAverage  float64 `json:"target_average" validate:"gt=0,lte=100"`
	RemainingExams int     `json:"remaining_exams" validate:"gt=0"`
}

type scheduleItemRequest struct {
	DayOfWeek  int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime  string `json:"start_time" validate:"required,clock"`
	EndTime    string `json:"end_time" validate:"required,clock"`
	Subject    string `json:"subject" validate:"required,max=100"`
	Location   string `json:"location" validate:"max=255"`
	Instructor string `json:"instructor" validate:"max=255"`
}

type scheduleRequest struct {
	StudentID   int64                 `json:"student_id" validate:"omitempty,gt=0"`
	Name        string                `json:"name" validate:"required,max=255"`
	Description string                `json:"description" validate:"max=2000"`
	Items       []scheduleItemRequest `json:"items" validate:"dive"`
}

type completeItemRequest struct {
	Date        string `json:"date" validate:"omitempty,date"`
	IsCompleted *bool  `json:"is_completed"`
	Notes       string `json:"notes" validate:"max=2000"`
}
