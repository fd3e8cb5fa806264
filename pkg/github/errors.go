package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
)

// APIError is returned for any response outside the 2xx range.
type APIError struct {
	StatusCode int
	Message    string
	// Errors holds the field-level details GitHub sends with 422 responses.
	Errors    []ErrorDetail
	RateLimit *RateLimitInfo
}

// ErrorDetail is one entry of a GitHub validation error.
type ErrorDetail struct {
	Resource string
	Field    string
	Code     string
	Message  string
}

// RateLimitInfo is the quota attached to a rate-limited response.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     int64
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GitHub API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

// IsRateLimitError reports whether err is a 429, or a 403 with an exhausted quota.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return apiErr.StatusCode == http.StatusForbidden && apiErr.RateLimit != nil && apiErr.RateLimit.Remaining == 0
}

// IsNotFoundError reports whether err is a 404.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAuthenticationError reports whether err is a 401, or a 403 that is not rate limiting.
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		return true
	}
	return apiErr.StatusCode == http.StatusForbidden && apiErr.RateLimit == nil
}

// toAPIError converts go-github failures to *APIError. Transport errors
// (no response at all) are returned unchanged. go-github reports 202 as an
// AcceptedError; it is a 2xx and therefore success here.
func toAPIError(err error) error {
	if err == nil {
		return nil
	}

	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			StatusCode: statusOf(rateErr.Response),
			Message:    rateErr.Message,
			RateLimit: &RateLimitInfo{
				Limit:     rateErr.Rate.Limit,
				Remaining: rateErr.Rate.Remaining,
				Reset:     rateErr.Rate.Reset.Time.Unix(),
			},
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		apiErr := &APIError{
			StatusCode: statusOf(abuseErr.Response),
			Message:    abuseErr.Message,
			RateLimit:  &RateLimitInfo{},
		}
		if abuseErr.RetryAfter != nil {
			apiErr.RateLimit.Reset = time.Now().Add(*abuseErr.RetryAfter).Unix()
		}
		return apiErr
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		apiErr := &APIError{
			StatusCode: statusOf(respErr.Response),
			Message:    respErr.Message,
		}
		for _, e := range respErr.Errors {
			apiErr.Errors = append(apiErr.Errors, ErrorDetail{
				Resource: e.Resource,
				Field:    e.Field,
				Code:     e.Code,
				Message:  e.Message,
			})
		}
		return apiErr
	}

	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
