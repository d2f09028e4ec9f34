package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Schema validation failures are reported with the same 400 status as domain validation.
func init() {
	newError := huma.NewError
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		return newError(status, msg, errs...)
	}
}

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// responder turns service errors into huma status errors.
type responder struct {
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func newResponder(logger zerolog.Logger, m *metrics.Metrics, validate *validator.Validate) responder {
	return responder{logger: logger, metrics: m, validate: validate}
}

// check runs the DTO validation tags on body.
func (r responder) check(body any) error {
	err := r.validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return huma.Error400BadRequest("Validation failed", err)
	}
	details := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + fe.Field(),
			Message:  tagMessage(fe),
			Value:    fe.Value(),
		})
	}
	return huma.Error400BadRequest("Validation failed", details...)
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "url":
		return "enter a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// fail maps err onto the HTTP error contract. entity and action only shape the messages.
func (r responder) fail(err error, entity, action string) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return validationError(verr)
	}

	var denied *access.DeniedError
	if errors.As(err, &denied) {
		if errors.Is(err, access.ErrUnauthenticated) {
			r.observeDenied("unauthenticated")
			return huma.Error401Unauthorized(denied.Error())
		}
		r.observeDenied("forbidden")
		return huma.Error403Forbidden(denied.Error())
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound(capitalize(entity) + " not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return huma.Error401Unauthorized("Invalid credentials")
	case errors.Is(err, service.ErrRoleMismatch):
		return huma.Error403Forbidden("This account cannot sign in with the requested profile type")
	}

	r.logger.Error().Err(err).Str("entity", entity).Str("action", action).Msg("Request failed")
	return huma.Error500InternalServerError(fmt.Sprintf("Failed to %s %s", action, entity))
}

func (r responder) observeDenied(kind string) {
	if r.metrics != nil {
		r.metrics.ObserveDenied(kind)
	}
}

func validationError(verr *model.ValidationError) error {
	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]error, 0, len(fields))
	for _, field := range fields {
		for _, msg := range verr.Fields[field] {
			details = append(details, &huma.ErrorDetail{Location: "body." + field, Message: msg})
		}
	}
	return huma.Error400BadRequest("Validation failed", details...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
