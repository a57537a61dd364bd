package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loipv/library-events-producer/config"
	"github.com/loipv/library-events-producer/httpapi/mocks"
	"github.com/loipv/library-events-producer/kafka"
	"github.com/loipv/library-events-producer/libraryevent"
)

var itamarBook = libraryevent.Book{BookID: 123, BookName: "Kafka using Spring Boot", BookAuthor: "Itamar"}

func newTestRouter(t *testing.T, mode config.PublishMode) (http.Handler, *mocks.MockEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	srv := NewServer(config.ServerConfig{}, nil, nil, NewLibraryEventController(publisher, mode, nil))
	return srv.Handler(), publisher
}

func do(h http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/v1/libraryevent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostLibraryEvent(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishAsync)
	publisher.EXPECT().SendAsync(gomock.Any(), libraryevent.NewEvent(itamarBook)).Return(nil)

	rec := do(h, http.MethodPost, `{"libraryEventId":null,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"libraryEventId":null,"libraryEventType":"NEW","book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`, rec.Body.String())
}

func TestPostLibraryEvent_IgnoresClientEventType(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishAsync)
	publisher.EXPECT().SendAsync(gomock.Any(), libraryevent.NewEvent(itamarBook)).Return(nil)

	rec := do(h, http.MethodPost, `{"libraryEventType":"UPDATE","book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPostLibraryEvent_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing book fields",
			body: `{"libraryEventId":null,"book":{"bookId":null,"bookAuthor":null,"bookName":"Kafka using Spring Boot"}}`,
			want: "book.bookAuthor - must not be blank, book.bookId - must not be null",
		},
		{
			name: "blank strings",
			body: `{"book":{"bookId":1,"bookName":"  ","bookAuthor":""}}`,
			want: "book.bookAuthor - must not be blank, book.bookName - must not be blank",
		},
		{
			name: "missing book",
			body: `{"libraryEventId":null}`,
			want: "book - must not be null",
		},
		{
			name: "id on new event",
			body: `{"libraryEventId":5,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`,
			want: msgUnexpectedID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no publisher expectations: any call fails the test
			h, _ := newTestRouter(t, config.PublishAsync)

			rec := do(h, http.MethodPost, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestPostLibraryEvent_MalformedJSON(t *testing.T) {
	h, _ := newTestRouter(t, config.PublishAsync)

	rec := do(h, http.MethodPost, `{"book":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request")
}

func TestPutLibraryEvent(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishAsync)
	publisher.EXPECT().SendAsync(gomock.Any(), libraryevent.UpdateEvent(123, itamarBook)).Return(nil)

	rec := do(h, http.MethodPut, `{"libraryEventId":123,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"libraryEventId":123,"libraryEventType":"UPDATE","book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`, rec.Body.String())
}

func TestPutLibraryEvent_NullID(t *testing.T) {
	h, _ := newTestRouter(t, config.PublishAsync)

	rec := do(h, http.MethodPut, `{"libraryEventId":null,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please pass the LibraryEventId", rec.Body.String())
}

func TestPutLibraryEvent_IDOutOfRange(t *testing.T) {
	h, _ := newTestRouter(t, config.PublishSync)

	rec := do(h, http.MethodPut, `{"libraryEventId":4294967419,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "libraryEventId - must be less than or equal to 2147483647", rec.Body.String())

	rec = do(h, http.MethodPut, `{"libraryEventId":-2147483649,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "libraryEventId - must be greater than or equal to -2147483648", rec.Body.String())
}

func TestPublishMode_Sync(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishSync)
	publisher.EXPECT().
		SendSync(gomock.Any(), libraryevent.NewEvent(itamarBook)).
		Return(&kafka.DeliveryReport{Topic: "library-events", Partition: 0, Offset: 3}, nil)

	rec := do(h, http.MethodPost, `{"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPublishMode_SyncFailure(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishSync)
	publisher.EXPECT().
		SendSync(gomock.Any(), libraryevent.UpdateEvent(9, itamarBook)).
		Return(nil, &libraryevent.DeliveryError{Topic: "library-events", Err: errors.New("broker down")})

	rec := do(h, http.MethodPut, `{"libraryEventId":9,"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgPublishError, rec.Body.String())
}

func TestPublishMode_FireAndForget(t *testing.T) {
	h, publisher := newTestRouter(t, config.PublishFireAndForget)
	publisher.EXPECT().SendFireAndForget(gomock.Any(), libraryevent.NewEvent(itamarBook))

	rec := do(h, http.MethodPost, `{"book":{"bookId":123,"bookName":"Kafka using Spring Boot","bookAuthor":"Itamar"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
}
