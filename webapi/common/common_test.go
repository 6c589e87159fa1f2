package common_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/voucher"
	"github.com/amirasaad/fundledger/pkg/testutils"
	"github.com/amirasaad/fundledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("code", "required"), fiber.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", domain.ErrValidation), fiber.StatusBadRequest},
		{"not found", domain.NewNotFoundError("fund", 1), fiber.StatusNotFound},
		{"duplicate voucher", &voucher.DuplicateNumberError{Scope: voucher.ScopeProject, Number: "PV-1"}, fiber.StatusConflict},
		{"closed voucher", &voucher.AlreadyClosedError{VoucherID: 3, Closed: true}, fiber.StatusConflict},
		{"already exists", domain.ErrAlreadyExists, fiber.StatusConflict},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed},
		{"unknown", errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, common.ErrorToStatusCode(tt.err))
		})
	}
}

func problemApp(err error, args ...any) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return common.ProblemDetailsJSON(c, "Failed", err, args...)
	})
	return app
}

func decodeProblem(t *testing.T, app *fiber.App) (int, common.ProblemDetails, map[string]string) {
	t.Helper()
	resp := testutils.MakeRequest(t, app, fiber.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	var raw struct {
		common.ProblemDetails
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw.ProblemDetails, raw.Errors
}

func TestProblemDetailsJSON(t *testing.T) {
	t.Run("validation fields", func(t *testing.T) {
		status, pd, fields := decodeProblem(t, problemApp(domain.NewValidationError("amount", "Amount must not be zero.")))
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Failed", pd.Title)
		assert.Equal(t, "/", pd.Instance)
		assert.Equal(t, "Amount must not be zero.", fields["amount"])
	})

	t.Run("duplicate voucher number", func(t *testing.T) {
		status, _, fields := decodeProblem(t, problemApp(&voucher.DuplicateNumberError{Scope: voucher.ScopeStudio, Number: "SV-1"}))
		assert.Equal(t, fiber.StatusConflict, status)
		assert.Contains(t, fields, "voucherNumber")
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		status, pd, fields := decodeProblem(t, problemApp(errors.New("pq: relation missing")))
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "An unexpected error occurred.", pd.Detail)
		assert.Empty(t, fields)
	})

	t.Run("status and detail overrides", func(t *testing.T) {
		status, pd, _ := decodeProblem(t, problemApp(nil, "Slow down.", fiber.StatusTooManyRequests))
		assert.Equal(t, fiber.StatusTooManyRequests, status)
		assert.Equal(t, "Slow down.", pd.Detail)
	})
}

type sampleRequest struct {
	Name string `json:"name" validate:"required,max=5"`
	Kind string `json:"kind" validate:"required,oneof=a b"`
	Ref  string `json:"ref" validate:"omitempty,uuid"`
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		in, err := common.BindAndValidate[sampleRequest](c)
		if in == nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", in)
	})

	tests := []struct {
		name   string
		body   string
		status int
		fields map[string]string
	}{
		{"valid", `{"name":"abc","kind":"a"}`, fiber.StatusOK, nil},
		{"missing", `{}`, fiber.StatusBadRequest, map[string]string{
			"name": "This field is required.",
			"kind": "This field is required.",
		}},
		{"format checks", `{"name":"abcdef","kind":"c","ref":"x","date":"2024/01/02"}`, fiber.StatusBadRequest, map[string]string{
			"name": "Must be at most 5 characters.",
			"kind": "Must be one of: a b.",
			"ref":  "Must be a valid UUID.",
			"date": "Must be a date formatted as 2006-01-02.",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutils.MakeRequest(t, app, fiber.MethodPost, "/", tt.body, "")
			defer resp.Body.Close() //nolint: errcheck
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.fields == nil {
				return
			}
			var pd struct {
				Errors map[string]string `json:"errors"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
			assert.Equal(t, tt.fields, pd.Errors)
		})
	}
}

func TestOptionalDate(t *testing.T) {
	got, err := common.OptionalDate("from", "", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	start, err := common.OptionalDate("from", "2024-03-15", false)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T00:00:00Z", start.Format("2006-01-02T15:04:05Z07:00"))

	end, err := common.OptionalDate("to", "2024-03-15", true)
	require.NoError(t, err)
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())

	_, err = common.OptionalDate("to", "15/03/2024", true)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOptionalUUID(t *testing.T) {
	id, err := common.OptionalUUID("fundId", " ")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = common.OptionalUUID("fundId", "nope")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "fundId")
}
