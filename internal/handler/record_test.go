package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/service"
)

func groceries() dto.RecordRequest {
	return dto.RecordRequest{
		Title:       "Groceries",
		Description: "weekly shop",
		Category:    "food",
		Date:        "2025-03-14",
		Amount:      4250,
	}
}

// create posts req as caller and returns the created record.
func create(t *testing.T, h *RecordHandler, caller *model.Caller, req dto.RecordRequest) dto.RecordResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Create(rec, asCaller(jsonRequest(http.MethodPost, "/api/x", req), caller))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (body %s)", rec.Code, rec.Body.String())
	}
	return decodeBody[dto.RecordResponse](t, rec)
}

func TestRecordHandler_Create(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	h := f.recordHandler(model.KindExpense)

	got := create(t, h, alice, groceries())

	if got.ID == "" {
		t.Error("id is empty")
	}
	if got.Kind != "expense" || got.Title != "Groceries" || got.Date != "2025-03-14" || got.Amount != 4250 {
		t.Errorf("unexpected record: %+v", got)
	}

	stored, err := f.store.GetRecordByID(t.Context(), model.KindExpense, got.ID)
	if err != nil {
		t.Fatalf("stored record: %v", err)
	}
	if stored.OwnerID != alice.ID {
		t.Errorf("owner = %q, want %q", stored.OwnerID, alice.ID)
	}
	if !strings.Contains(f.logs.String(), `"msg":"record_created"`) {
		t.Errorf("record_created not logged: %s", f.logs.String())
	}
}

func TestRecordHandler_CreateIgnoresClientOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	h := f.recordHandler(model.KindIncome)

	body := `{"title":"Salary","date":"2025-03-01","amount":100000,"user_id":"` + bob.ID + `","owner_id":"` + bob.ID + `"}`
	rec := httptest.NewRecorder()
	h.Create(rec, asCaller(jsonRequest(http.MethodPost, "/api/income", body), alice))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	records, err := f.store.ListRecordsByOwner(t.Context(), model.KindIncome, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("bob owns %d incomes created by alice", len(records))
	}
}

func TestRecordHandler_CreateErrors(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	h := f.recordHandler(model.KindExpense)

	noAmount := groceries()
	noAmount.Amount = 0
	badDate := groceries()
	badDate.Date = "14/03/2025"

	tests := []struct {
		name      string
		body      any
		wantCode  string
		wantField string
	}{
		{"zero amount", noAmount, "VALIDATION_ERROR", "amount"},
		{"bad date", badDate, "VALIDATION_ERROR", "date"},
		{"malformed JSON", `{"title":`, "INVALID_JSON", ""},
		{"trailing data", `{"title":"a"} {"title":"b"}`, "INVALID_JSON", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, asCaller(jsonRequest(http.MethodPost, "/api/expense", tt.body), alice))
			resp := assertError(t, rec, http.StatusBadRequest, tt.wantCode)
			if !strings.Contains(resp.Error, tt.wantField) {
				t.Errorf("error = %q, want it to mention %q", resp.Error, tt.wantField)
			}
		})
	}
}

func TestRecordHandler_ListEmptyIsArray(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	h := f.recordHandler(model.KindExpense)

	rec := httptest.NewRecorder()
	h.List(rec, asCaller(httptest.NewRequest(http.MethodGet, "/api/expense/all", nil), alice))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestRecordHandler_ListOnlyOwnNewestFirst(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	h := f.recordHandler(model.KindExpense)

	older := groceries()
	older.Date = "2025-01-01"
	older.Title = "Older"
	create(t, h, alice, older)
	create(t, h, alice, groceries())
	create(t, h, bob, groceries())

	rec := httptest.NewRecorder()
	h.List(rec, asCaller(httptest.NewRequest(http.MethodGet, "/api/expense/all", nil), alice))

	list := decodeBody[[]dto.RecordResponse](t, rec)
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Date != "2025-03-14" || list[1].Title != "Older" {
		t.Errorf("order = [%s %s], want newest first", list[0].Date, list[1].Date)
	}
}

func TestRecordHandler_Ownership(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")

	for _, kind := range []model.RecordKind{model.KindExpense, model.KindIncome} {
		t.Run(string(kind), func(t *testing.T) {
			h := f.recordHandler(kind)
			owned := create(t, h, alice, groceries())

			get := httptest.NewRecorder()
			h.Get(get, withID(asCaller(httptest.NewRequest(http.MethodGet, "/", nil), bob), owned.ID))
			assertError(t, get, http.StatusForbidden, "FORBIDDEN")

			edit := groceries()
			edit.Title = "Hijacked"
			put := httptest.NewRecorder()
			h.Update(put, withID(asCaller(jsonRequest(http.MethodPut, "/", edit), bob), owned.ID))
			assertError(t, put, http.StatusForbidden, "FORBIDDEN")

			del := httptest.NewRecorder()
			h.Delete(del, withID(asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), bob), owned.ID))
			assertError(t, del, http.StatusForbidden, "FORBIDDEN")

			stored, err := f.store.GetRecordByID(t.Context(), kind, owned.ID)
			if err != nil {
				t.Fatalf("record vanished after forbidden delete: %v", err)
			}
			if stored.Title != "Groceries" {
				t.Errorf("title = %q after forbidden update", stored.Title)
			}

			ok := httptest.NewRecorder()
			h.Get(ok, withID(asCaller(httptest.NewRequest(http.MethodGet, "/", nil), alice), owned.ID))
			if ok.Code != http.StatusOK {
				t.Errorf("owner get: status = %d", ok.Code)
			}
		})
	}

	if got := strings.Count(f.logs.String(), `"msg":"access_denied"`); got != 6 {
		t.Errorf("access_denied logged %d times, want 6", got)
	}
	if got := f.recorder.Snapshot().AccessDenied; got != 6 {
		t.Errorf("access denied counter = %d, want 6", got)
	}
}

func TestRecordHandler_NotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")

	tests := []struct {
		kind    model.RecordKind
		wantMsg string
	}{
		{model.KindExpense, "Expense not found"},
		{model.KindIncome, "Income not found"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			h := f.recordHandler(tt.kind)

			rec := httptest.NewRecorder()
			h.Get(rec, withID(asCaller(httptest.NewRequest(http.MethodGet, "/", nil), alice), "9999"))
			resp := assertError(t, rec, http.StatusNotFound, "RECORD_NOT_FOUND")
			if resp.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantMsg)
			}

			del := httptest.NewRecorder()
			h.Delete(del, withID(asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), alice), "9999"))
			assertError(t, del, http.StatusNotFound, "RECORD_NOT_FOUND")
		})
	}
}

func TestRecordHandler_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	h := f.recordHandler(model.KindExpense)
	owned := create(t, h, alice, groceries())

	edit := groceries()
	edit.Title = "Groceries and wine"
	edit.Amount = 6100
	put := httptest.NewRecorder()
	h.Update(put, withID(asCaller(jsonRequest(http.MethodPut, "/", edit), alice), owned.ID))
	if put.Code != http.StatusOK {
		t.Fatalf("update: status = %d (body %s)", put.Code, put.Body.String())
	}
	updated := decodeBody[dto.RecordResponse](t, put)
	if updated.ID != owned.ID || updated.Title != "Groceries and wine" || updated.Amount != 6100 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	invalid := edit
	invalid.Title = "   "
	bad := httptest.NewRecorder()
	h.Update(bad, withID(asCaller(jsonRequest(http.MethodPut, "/", invalid), alice), owned.ID))
	assertError(t, bad, http.StatusBadRequest, "VALIDATION_ERROR")

	del := httptest.NewRecorder()
	h.Delete(del, withID(asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), alice), owned.ID))
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", del.Code)
	}
	if del.Body.Len() != 0 {
		t.Errorf("delete body = %q, want empty", del.Body.String())
	}

	get := httptest.NewRecorder()
	h.Get(get, withID(asCaller(httptest.NewRequest(http.MethodGet, "/", nil), alice), owned.ID))
	assertError(t, get, http.StatusNotFound, "RECORD_NOT_FOUND")
}

func TestRecordHandler_NoCaller(t *testing.T) {
	f := newFixture(t)
	h := f.recordHandler(model.KindExpense)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/expense/all", nil))
	assertError(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")
}

func TestRecordHandler_InternalError(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	h := NewRecordHandler(service.NewRecordService(model.KindExpense, brokenStore{}, f.guard, nil, nil), f.logger)

	rec := httptest.NewRecorder()
	h.List(rec, asCaller(httptest.NewRequest(http.MethodGet, "/api/expense/all", nil), alice))

	assertError(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
	if strings.Contains(rec.Body.String(), "10.1.2.3") {
		t.Errorf("response leaks storage error: %s", rec.Body.String())
	}
}
