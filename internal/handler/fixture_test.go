package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
)

// fixture wires real services over a MemoryStore.
type fixture struct {
	store    *repository.MemoryStore
	codec    *auth.TokenCodec
	recorder *metrics.InMemoryRecorder
	authSvc  *service.AuthService
	guard    *service.Guard
	logs     *bytes.Buffer
	logger   *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := auth.NewTokenCodec([]byte(strings.Repeat("s", 32)), time.Hour, "fintrack-test")
	if err != nil {
		t.Fatalf("token codec: %v", err)
	}

	store := repository.NewMemoryStore()
	recorder := metrics.NewInMemory()
	logs := &bytes.Buffer{}

	return &fixture{
		store:    store,
		codec:    codec,
		recorder: recorder,
		authSvc:  service.NewAuthService(store, codec, recorder),
		guard:    service.NewGuard(store, codec, recorder),
		logs:     logs,
		logger:   slog.New(slog.NewJSONHandler(logs, nil)),
	}
}

// signup registers username and returns its caller.
func (f *fixture) signup(t *testing.T, username string) *model.Caller {
	t.Helper()
	user, err := f.authSvc.Signup(context.Background(), service.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret-" + username,
		FullName: strings.ToUpper(username),
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return user.Caller()
}

func (f *fixture) recordHandler(kind model.RecordKind) *RecordHandler {
	return NewRecordHandler(service.NewRecordService(kind, f.store, f.guard, nil, f.recorder), f.logger)
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, _ := json.Marshal(b)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asCaller attaches caller the way the auth middleware does.
func asCaller(r *http.Request, caller *model.Caller) *http.Request {
	return r.WithContext(auth.ContextWithCaller(r.Context(), caller))
}

// withID sets the chi {id} URL parameter.
func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	resp := decodeBody[dto.ErrorResponse](t, rec)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	return resp
}

var errStorage = errors.New("dial tcp 10.1.2.3:5432: connection refused")

// brokenStore fails every credential and record operation.
type brokenStore struct{}

func (brokenStore) UsernameExists(context.Context, string) (bool, error) { return false, errStorage }
func (brokenStore) EmailExists(context.Context, string) (bool, error) { return false, errStorage }
func (brokenStore) GetUserByUsername(context.Context, string) (*model.Identity, error) {
	return nil, errStorage
}
func (brokenStore) CreateUser(context.Context, *model.Identity) error { return errStorage }
func (brokenStore) SetUserEnabled(context.Context, string, bool) error { return errStorage }
func (brokenStore) CreateRecord(context.Context, *model.Record) error { return errStorage }
func (brokenStore) UpdateRecord(context.Context, *model.Record) error { return errStorage }
func (brokenStore) DeleteRecord(context.Context, model.RecordKind, string, string) error {
	return errStorage
}
func (brokenStore) GetRecordByID(context.Context, model.RecordKind, string) (*model.Record, error) {
	return nil, errStorage
}
func (brokenStore) ListRecordsByOwner(context.Context, model.RecordKind, string) ([]*model.Record, error) {
	return nil, errStorage
}
func (brokenStore) ListRecordsByOwnerBetween(context.Context, model.RecordKind, string, time.Time, time.Time) ([]*model.Record, error) {
	return nil, errStorage
}
