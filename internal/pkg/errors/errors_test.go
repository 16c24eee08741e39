package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeSpecLoadFailed, "specification not found", http.StatusNotFound),
			want: "SPEC_LOAD_FAILED: specification not found",
		},
		{
			name: "with wrapped error",
			err:  Wrap(fmt.Errorf("yaml: line 3"), CodeSpecInvalid, "parse failure", http.StatusUnprocessableEntity),
			want: "SPEC_INVALID: parse failure: yaml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap(inner, "CODE", "msg", 500)

	if !errors.Is(appErr, inner) {
		t.Error("errors.Is should match inner error")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound(CodeSpecLoadFailed, "spec not found")
	wrapped := fmt.Errorf("wrapped: %w", appErr)

	got, ok := IsAppError(wrapped)
	if !ok {
		t.Fatal("IsAppError should return true for wrapped AppError")
	}
	if got.Code != CodeSpecLoadFailed {
		t.Errorf("Code = %q, want %q", got.Code, CodeSpecLoadFailed)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
	}{
		{"NotFound", NotFound("NF", "not found"), http.StatusNotFound},
		{"BadRequest", BadRequest("BR", "bad request"), http.StatusBadRequest},
		{"TooLarge", TooLarge("TL", "too large"), http.StatusRequestEntityTooLarge},
		{"Unprocessable", Unprocessable("UP", "unprocessable"), http.StatusUnprocessableEntity},
		{"BadGateway", BadGateway("BG", "bad gateway"), http.StatusBadGateway},
		{"Internal", Internal("IE", "internal"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}
