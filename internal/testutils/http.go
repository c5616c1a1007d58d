package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestSuite serves a gin router in-process, either through a recorder or
// behind an httptest server
type HTTPTestSuite struct {
	Router *gin.Engine
}

// SetupHTTPTest initializes Gin for testing
func SetupHTTPTest() *HTTPTestSuite {
	gin.SetMode(gin.TestMode)
	return &HTTPTestSuite{Router: gin.New()}
}

// MakeRequest runs one request against the router without a network round
// trip. body is sent as JSON when set.
func (suite *HTTPTestSuite) MakeRequest(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	suite.Router.ServeHTTP(recorder, req)
	return recorder
}

// AssertJSONResponse asserts the response status and decodes the JSON body
// into target
func AssertJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	if target != nil {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target))
	}
}

// AssertErrorResponse asserts a Gateway error body {"error": ...} and returns
// the whole body for further checks
func AssertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	AssertJSONResponse(t, recorder, expectedStatus, &body)

	if expectedMessage != "" {
		assert.Contains(t, body["error"], expectedMessage)
	}
	return body
}

// AssertCascadeConflict asserts a 409 that carries the cascade marker in the
// code field or as the requiresCascade flag
func AssertCascadeConflict(t *testing.T, recorder *httptest.ResponseRecorder) {
	t.Helper()
	body := AssertErrorResponse(t, recorder, http.StatusConflict, "still referenced")
	if flag, ok := body["requiresCascade"]; ok {
		assert.Equal(t, true, flag)
		return
	}
	assert.Equal(t, CascadeRequiredCode, body["code"])
}
