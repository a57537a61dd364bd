package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/loipv/library-events-producer/config"
	"github.com/loipv/library-events-producer/httpapi/mocks"
	"github.com/loipv/library-events-producer/kafka"
)

func newSystemRouter(t *testing.T) (http.Handler, *mocks.MockHealthChecker) {
	t.Helper()
	ctrl := gomock.NewController(t)
	health := mocks.NewMockHealthChecker(ctrl)
	reg := prometheus.NewRegistry()
	srv := NewServer(config.ServerConfig{}, nil, NewHTTPMetrics(reg), NewSystemController(health, "library-events", reg))
	return srv.Handler(), health
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLive(t *testing.T) {
	h, _ := newSystemRouter(t)

	rec := get(h, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h, health := newSystemRouter(t)
	health.EXPECT().Check(gomock.Any()).Return(&kafka.HealthResult{
		Status:  kafka.HealthStatusUp,
		Details: map[string]interface{}{"brokers": 1},
	})

	rec := get(h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","details":{"brokers":1}}`, rec.Body.String())
}

func TestHealth_Down(t *testing.T) {
	h, health := newSystemRouter(t)
	health.EXPECT().Check(gomock.Any()).Return(&kafka.HealthResult{
		Status: kafka.HealthStatusDown,
		Error:  errors.New("no brokers"),
	})

	rec := get(h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthBrokers(t *testing.T) {
	h, health := newSystemRouter(t)
	health.EXPECT().CheckBrokers(gomock.Any()).Return(&kafka.HealthResult{
		Status: kafka.HealthStatusUp,
		Details: map[string]interface{}{
			"brokers": []map[string]interface{}{{"id": 1, "host": "localhost", "port": 9092}},
		},
	})

	rec := get(h, "/health/brokers")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","details":{"brokers":[{"id":1,"host":"localhost","port":9092}]}}`, rec.Body.String())
}

func TestHealthTopic(t *testing.T) {
	h, health := newSystemRouter(t)
	health.EXPECT().CheckTopic(gomock.Any(), "library-events").Return(&kafka.HealthResult{Status: kafka.HealthStatusUp})
	health.EXPECT().CheckTopic(gomock.Any(), "other").Return(&kafka.HealthResult{Status: kafka.HealthStatusDown})

	assert.Equal(t, http.StatusOK, get(h, "/health/topic").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/health/topic?topic=other").Code)
}

func TestMetrics(t *testing.T) {
	h, _ := newSystemRouter(t)

	get(h, "/live")
	rec := get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/live",status="200"} 1`)
}
