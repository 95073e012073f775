package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
)

// testAPI is the full router over a MemoryStore, served on a loopback port.
type testAPI struct {
	srv      *httptest.Server
	store    *repository.MemoryStore
	recorder *metrics.InMemoryRecorder
	client   *http.Client
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	codec, err := auth.NewTokenCodec([]byte(strings.Repeat("k", 32)), time.Hour, "fintrack-test")
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	recorder := metrics.NewInMemory()
	guard := service.NewGuard(store, codec, recorder)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://app.example.com"}

	router := NewRouter(RouterConfig{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:         service.NewAuthService(store, codec, recorder),
		Guard:        guard,
		Expenses:     service.NewRecordService(model.KindExpense, store, guard, nil, recorder),
		Incomes:      service.NewRecordService(model.KindIncome, store, guard, nil, recorder),
		Stats:        service.NewStatsService(store, nil, recorder, 6),
		DB:           store,
		Metrics:      handler.NewMetricsHandler(recorder),
		CORS:         cors,
		MaxBodyBytes: 64 << 10,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testAPI{
		srv:      srv,
		store:    store,
		recorder: recorder,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// call sends a request and returns the response with its body read.
func (a *testAPI) call(t *testing.T, method, path, token string, body any) (*http.Request, *http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return req, resp, data
}

// register signs username up and logs in, returning the bearer token.
func (a *testAPI) register(t *testing.T, username string) string {
	t.Helper()

	_, resp, _ := a.call(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "pw-" + username,
		"full_name": strings.ToUpper(username[:1]) + username[1:],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, resp, body := a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "pw-" + username,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

type recordJSON struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type errorJSON struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}
