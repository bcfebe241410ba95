//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d", expectedStatus, w.Code))

	var errorResponse struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, errorResponse.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
}

// AssertConflictReason checks a 409 body carries the given machine-readable reason.
func AssertConflictReason(t *testing.T, w *httptest.ResponseRecorder, expectedReason string) {
	t.Helper()

	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var body struct {
		Detail struct {
			Reason string `json:"reason"`
		} `json:"detail"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))
	assert.Equal(t, expectedReason, body.Detail.Reason)
}

// AssertFieldErrors checks a 400 body lists exactly the given field/rule pairs.
func AssertFieldErrors(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var body struct {
		Detail struct {
			Fields []struct {
				Field string `json:"field"`
				Rule  string `json:"rule"`
			} `json:"fields"`
		} `json:"detail"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	got := make(map[string]string, len(body.Detail.Fields))
	for _, f := range body.Detail.Fields {
		got[f.Field] = f.Rule
	}
	assert.Equal(t, expected, got)
}
