package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := Configuration("PORT", "must be between 1 and 65535; got 99999")

	if err.Field != "PORT" {
		t.Errorf("field = %q, want PORT", err.Field)
	}
	if got := err.Error(); got != "invalid configuration: PORT: must be between 1 and 65535; got 99999" {
		t.Errorf("message = %q", got)
	}
	if !IsConfiguration(err) {
		t.Error("IsConfiguration should match a ConfigurationError")
	}
	if !IsConfiguration(fmt.Errorf("load config: %w", err)) {
		t.Error("IsConfiguration should match through wrapping")
	}
	if IsConfiguration(stderrors.New("boom")) {
		t.Error("IsConfiguration should reject unrelated errors")
	}
}

func TestServiceErrorStatuses(t *testing.T) {
	cases := []struct {
		err    *ServiceError
		code   string
		status int
	}{
		{Validation("bad input"), "ValidationError", http.StatusBadRequest},
		{NotFound("account"), "NotFoundError", http.StatusNotFound},
		{Conflict("duplicate"), "ConflictError", http.StatusConflict},
		{Unauthorized("no token"), "AuthenticationError", http.StatusUnauthorized},
		{Internal("boom", nil), "InternalServerError", http.StatusInternalServerError},
		{External("redis", stderrors.New("down")), "ExternalServiceError", http.StatusBadGateway},
		{Database("insert", stderrors.New("down")), "DatabaseError", http.StatusInternalServerError},
		{RateLimitExceeded(10, "1s"), "RateLimitExceeded", http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("code = %q, want %q", tc.err.Code, tc.code)
		}
		if tc.err.HTTPStatus != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, tc.err.HTTPStatus, tc.status)
		}
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("bad input").WithDetails("field", "email").WithDetails("reason", "format")

	if err.Details["field"] != "email" || err.Details["reason"] != "format" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := External("postgres", cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestGetServiceError(t *testing.T) {
	svc := NotFound("route")
	if got := GetServiceError(fmt.Errorf("handler: %w", svc)); got != svc {
		t.Error("known ServiceError should pass through")
	}

	cfgMapped := GetServiceError(Configuration("SECRET_KEY", "required"))
	if cfgMapped.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("configuration error status = %d, want 500", cfgMapped.HTTPStatus)
	}
	if cfgMapped.Details["field"] != "SECRET_KEY" {
		t.Errorf("configuration error should name the field, details = %v", cfgMapped.Details)
	}

	generic := GetServiceError(stderrors.New("boom"))
	if generic.Code != "InternalServerError" {
		t.Errorf("generic error code = %q", generic.Code)
	}
}
