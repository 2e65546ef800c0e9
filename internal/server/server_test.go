package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		Environment: "testing",
		APIPrefix:   "/api",
		APIVersion:  "1.0.0",
	}
}

func getJSON(t *testing.T, handler http.Handler, path string) (int, map[string]string) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	body := map[string]string{}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestRootEndpoint(t *testing.T) {
	router := NewRouter(testSettings())

	code, body := getJSON(t, router, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "testing", body["environment"])
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(testSettings())

	code, body := getJSON(t, router, "/api/health")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "OK", body["message"])
}

func TestHelloEndpoints(t *testing.T) {
	router := NewRouter(testSettings())

	code, body := getJSON(t, router, "/api/hello")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello, World!", body["message"])

	code, body = getJSON(t, router, "/api/hello/Alice")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello, Alice!", body["message"])
}

func TestCustomAPIPrefix(t *testing.T) {
	settings := testSettings()
	settings.APIPrefix = "/v2"
	router := NewRouter(settings)

	code, _ := getJSON(t, router, "/v2/health")
	assert.Equal(t, http.StatusOK, code)

	code, _ = getJSON(t, router, "/api/health")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings := LoadSettings()

	assert.Equal(t, "/api", settings.APIPrefix)
	assert.Equal(t, 8080, settings.Port)
	assert.False(t, settings.IsProduction())
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "TRUE")

	settings := LoadSettings()
	assert.True(t, settings.IsProduction())
	assert.Equal(t, "0.0.0.0:9090", settings.Addr())
	assert.True(t, settings.Debug)
}
