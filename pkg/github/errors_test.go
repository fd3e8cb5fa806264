package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v68/github"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		wantMsg string
	}{
		{
			name:    "error with message",
			err:     &APIError{StatusCode: 404, Message: "Not found"},
			wantMsg: "GitHub API error (status 404): Not found",
		},
		{
			name:    "error without message",
			err:     &APIError{StatusCode: 500},
			wantMsg: "GitHub API error (status 500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	exhausted := &RateLimitInfo{Limit: 5000, Remaining: 0}

	tests := []struct {
		name     string
		err      error
		rate     bool
		notFound bool
		auth     bool
	}{
		{"429 too many requests", &APIError{StatusCode: http.StatusTooManyRequests}, true, false, false},
		{"403 with exhausted quota", &APIError{StatusCode: http.StatusForbidden, RateLimit: exhausted}, true, false, false},
		{"403 without quota info", &APIError{StatusCode: http.StatusForbidden}, false, false, true},
		{"401 unauthorized", &APIError{StatusCode: http.StatusUnauthorized}, false, false, true},
		{"404 not found", &APIError{StatusCode: http.StatusNotFound}, false, true, false},
		{"wrapped 404", fmt.Errorf("failed: %w", &APIError{StatusCode: http.StatusNotFound}), false, true, false},
		{"plain error", errors.New("connection refused"), false, false, false},
		{"nil error", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.rate {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.rate)
			}
			if got := IsNotFoundError(tt.err); got != tt.notFound {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.notFound)
			}
			if got := IsAuthenticationError(tt.err); got != tt.auth {
				t.Errorf("IsAuthenticationError() = %v, want %v", got, tt.auth)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("error response with details", func(t *testing.T) {
		err := toAPIError(&github.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusUnprocessableEntity},
			Message:  "Validation failed",
			Errors:   []github.Error{{Resource: "PullRequest", Field: "head", Code: "invalid"}},
		})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("toAPIError() = %T, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "Validation failed" {
			t.Errorf("unexpected APIError: %+v", apiErr)
		}
		if len(apiErr.Errors) != 1 || apiErr.Errors[0].Field != "head" {
			t.Errorf("details not carried over: %+v", apiErr.Errors)
		}
	})

	t.Run("rate limit error", func(t *testing.T) {
		err := toAPIError(&github.RateLimitError{
			Response: &http.Response{StatusCode: http.StatusForbidden},
			Message:  "API rate limit exceeded",
			Rate:     github.Rate{Limit: 60, Remaining: 0},
		})
		if !IsRateLimitError(err) {
			t.Errorf("expected rate limit classification, got %v", err)
		}
	})

	t.Run("accepted is success", func(t *testing.T) {
		if err := toAPIError(&github.AcceptedError{}); err != nil {
			t.Errorf("toAPIError(AcceptedError) = %v, want nil", err)
		}
	})

	t.Run("transport error unchanged", func(t *testing.T) {
		orig := errors.New("dial tcp: connection refused")
		if got := toAPIError(orig); got != orig {
			t.Errorf("toAPIError() = %v, want original error", got)
		}
	})
}
