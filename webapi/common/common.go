// Package common holds the response envelopes, error mapping and request
// binding shared by the API handlers.
package common

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"` // {field: message} for form errors
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes err as a problem document. The status comes from
// ErrorToStatusCode unless an int is passed in args; a string in args
// replaces the detail text.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   fiber.StatusInternalServerError,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Status = ErrorToStatusCode(err)
		pd.Detail = err.Error()
		if fields := fieldErrors(err); fields != nil {
			pd.Errors = fields
		}
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		}
	}
	if pd.Status == fiber.StatusInternalServerError && err != nil {
		pd.Detail = "An unexpected error occurred."
	}
	return c.Status(pd.Status).JSON(pd, "application/problem+json")
}

func fieldErrors(err error) map[string]string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	var dup *voucher.DuplicateNumberError
	if errors.As(err, &dup) {
		return map[string]string{"voucherNumber": "Voucher number already exists."}
	}
	return nil
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateVoucherNumber),
		errors.Is(err, domain.ErrAlreadyClosed),
		errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure the problem response is already written and the returned error
// should be passed back to fiber as is.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
		}
		verr := &domain.ValidationError{}
		for _, fe := range ves {
			verr.Add(fe.Field(), messageFor(fe))
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", verr)
	}
	return &input, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	case "datetime":
		return fmt.Sprintf("Must be a date formatted as %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}

// UUIDParam parses a path parameter as a UUID.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "Must be a valid UUID.")
	}
	return id, nil
}

// UintParam parses a path parameter as a positive integer id.
func UintParam(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.NewValidationError(name, "Must be a positive integer.")
	}
	return uint(n), nil
}

// OptionalUUID parses s when it is not blank.
func OptionalUUID(field, s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, domain.NewValidationError(field, "Must be a valid UUID.")
	}
	return &id, nil
}

// OptionalDate parses a YYYY-MM-DD value when it is not blank. With endOfDay
// the result is the last instant of that date, for inclusive upper bounds.
func OptionalDate(field, s string, endOfDay bool) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, domain.NewValidationError(field, "Must be a date formatted as "+DateLayout+".")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
