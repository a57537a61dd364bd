package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/loipv/library-events-producer/config"
	"github.com/loipv/library-events-producer/httpapi"
	"github.com/loipv/library-events-producer/kafka"
	"github.com/loipv/library-events-producer/kafka/kafkatest"
	"github.com/loipv/library-events-producer/logging"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ShutdownTimeout: time.Second,
		},
		Kafka: config.KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Topic:        "library-events",
			ClientID:     "library-events-producer-test",
			Acks:         "all",
			CloseTimeout: 50 * time.Millisecond,
		},
		Producer: config.ProducerConfig{
			Mode:        config.PublishSync,
			SyncTimeout: time.Second,
		},
		Log: logging.Config{Level: "error", ServiceName: "test"},
	}
}

func TestValidateApp(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Options(testConfig())))
}

func TestApp_PublishesThroughTheGraph(t *testing.T) {
	cfg := testConfig()
	cfg.Kafka.AutoCreateTopic = true
	fake := kafkatest.NewProducer()
	admin := &kafkatest.AdminClient{}

	var srv *httpapi.Server
	app := fxtest.New(t,
		Options(cfg),
		fx.Provide(func() kafka.Producer { return fake }),
		fx.Provide(func() kafka.AdminFactory {
			return func([]string) (kafka.AdminClient, error) { return admin, nil }
		}),
		fx.Populate(&srv),
	)
	app.RequireStart()

	created := admin.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "library-events", created[0].Topic)

	req := httptest.NewRequest(http.MethodPut, "/v1/libraryevent",
		bytes.NewBufferString(`{"libraryEventId":123,"book":{"bookId":456,"bookName":"Kafka Using Spring Boot","bookAuthor":"Dilip"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	msgs := fake.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{0, 0, 0, 123}, msgs[0].Key)

	app.RequireStop()
}
