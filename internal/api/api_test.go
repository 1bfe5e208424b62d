package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/stats"
	"github.com/starford/dagaz/internal/testutil"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	svc := journal.NewService(store, db, 5)
	srv := httptest.NewServer(NewRouter(svc, false, "", nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func createEntry(t *testing.T, srv *httptest.Server, body map[string]any) EntryDetail {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/entries", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	return decode[EntryDetail](t, resp)
}

func TestEntryCRUD(t *testing.T) {
	srv := testServer(t)

	created := createEntry(t, srv, map[string]any{
		"title":   "First entry",
		"content": "<p>hello world</p>",
		"mood":    "happy",
		"tags":    []string{"go", "test"},
		"date":    "2026-08-28",
		"time":    "10:30",
	})
	if created.ID != 1 || created.Title != "First entry" || created.Date != "2026-08-28" {
		t.Errorf("created = %+v", created)
	}
	if created.WordCount != 2 {
		t.Errorf("word count = %d, want 2", created.WordCount)
	}

	// Read it back.
	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/entries/%d", srv.URL, created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[EntryDetail](t, resp)
	if got.Content != "<p>hello world</p>" || len(got.Tags) != 2 {
		t.Errorf("got = %+v", got)
	}

	// Update; date stays because the body omits it.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/entries/%d", srv.URL, created.ID), map[string]any{
		"content": "revised text",
		"mood":    "calm",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	updated := decode[EntryDetail](t, resp)
	if updated.Content != "revised text" || updated.Mood != "calm" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Date != created.Date {
		t.Errorf("date changed on update: %s -> %s", created.Date, updated.Date)
	}

	// Delete.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/entries/%d", srv.URL, created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/entries/%d", srv.URL, created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateEntry_Validation(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing content", map[string]any{"title": "x"}},
		{"markup-only content", map[string]any{"content": "<p>  </p>"}},
		{"bad date", map[string]any{"content": "x", "date": "28/08/2026"}},
		{"title too long", map[string]any{"content": "x", "title": strings.Repeat("a", 201)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/entries", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestCreateEntry_MalformedJSON(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/entries", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListEntries(t *testing.T) {
	srv := testServer(t)
	for i, day := range []string{"2026-08-26", "2026-08-28", "2026-08-27"} {
		createEntry(t, srv, map[string]any{
			"content": fmt.Sprintf("entry %d", i),
			"date":    day,
			"time":    "10:00",
		})
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/entries", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	list := decode[EntryListResponse](t, resp)
	if list.Total != 3 || len(list.Entries) != 3 {
		t.Fatalf("list = %+v, want 3", list)
	}
	if list.Entries[0].Date != "2026-08-28" || list.Entries[2].Date != "2026-08-26" {
		t.Errorf("order = [%s %s %s], want newest first",
			list.Entries[0].Date, list.Entries[1].Date, list.Entries[2].Date)
	}

	// Limit caps entries but not the total.
	resp = doJSON(t, http.MethodGet, srv.URL+"/entries?limit=1", nil)
	list = decode[EntryListResponse](t, resp)
	if list.Total != 3 || len(list.Entries) != 1 {
		t.Errorf("limited list = %+v, want total 3, 1 entry", list)
	}
}

func TestListEntries_ByDay(t *testing.T) {
	srv := testServer(t)
	createEntry(t, srv, map[string]any{"content": "target", "date": "2026-08-27"})
	createEntry(t, srv, map[string]any{"content": "other", "date": "2026-08-28"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/entries?day=2026-08-27", nil)
	list := decode[EntryListResponse](t, resp)
	if list.Total != 1 || list.Entries[0].Date != "2026-08-27" {
		t.Errorf("day list = %+v, want the 08-27 entry", list)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/entries?day=bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus day status = %d, want 400", resp.StatusCode)
	}
}

func TestGetEntry_BadID(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{"/entries/abc", "/entries/0", "/entries/-5"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := testServer(t)
	createEntry(t, srv, map[string]any{"title": "Trip", "content": "<p>booked the flights</p>", "date": "2026-08-28"})
	createEntry(t, srv, map[string]any{"content": "nothing relevant", "date": "2026-08-27"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/search?q=flights", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]json.RawMessage](t, resp)
	var results []map[string]any
	if err := json.Unmarshal(body["results"], &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0]["title"] != "Trip" {
		t.Errorf("results = %v, want the trip entry", results)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/search", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", resp.StatusCode)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	srv := testServer(t)
	createEntry(t, srv, map[string]any{"content": "a", "date": "2026-08-15"})
	createEntry(t, srv, map[string]any{"content": "b", "date": "2026-08-15"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/calendar?month=2026-08", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cal := decode[CalendarResponse](t, resp)
	if cal.Month != "2026-08" || len(cal.Days) != 31 {
		t.Fatalf("calendar = %s with %d days", cal.Month, len(cal.Days))
	}
	d15 := cal.Days[14]
	if d15.Count != 2 || d15.Level != 2 || !d15.HasEntry {
		t.Errorf("day 15 = %+v, want count 2 level 2", d15)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/calendar?month=August", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := testServer(t)
	createEntry(t, srv, map[string]any{"content": "a b c", "mood": "happy"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	d := decode[stats.Dashboard](t, resp)
	if d.TotalEntries != 1 {
		t.Errorf("total = %d, want 1", d.TotalEntries)
	}
	if d.Words.Total != 3 {
		t.Errorf("words = %d, want 3", d.Words.Total)
	}
	if d.Moods["happy"] != 100 {
		t.Errorf("moods = %v", d.Moods)
	}
	if d.Achievements == nil {
		t.Error("achievements should encode as [], not null")
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	svc := journal.NewService(store, db, 5)
	srv := httptest.NewServer(NewRouter(svc, true, "secret", nil))
	t.Cleanup(srv.Close)

	// No token.
	resp, err := http.Get(srv.URL + "/entries")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}

	// Wrong token.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/entries", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", resp.StatusCode)
	}

	// Valid token.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/entries", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", resp.StatusCode)
	}
}
