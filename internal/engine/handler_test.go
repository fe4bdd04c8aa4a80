package engine

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"admin-backend/internal/metadata"
)

func testApp(t *testing.T, users EntityStore, posts PostStore) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, NewHandler(users, posts, 10, ValidateOnSubmit))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q", method, path, raw)
		}
	}
	return resp, decoded
}

func TestHandler_ListPagination(t *testing.T) {
	posts := newFakeStore(metadata.KindPost)
	for i := 0; i < 12; i++ {
		record := validPostRecord()
		record["views"] = int64(i)
		if _, err := posts.Create(nil, record); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	resp, body := doJSON(t, app, "GET", "/api/post?per_page=5&page=2", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	data := body["data"].([]any)
	if len(data) != 5 {
		t.Fatalf("expected 5 rows on page 2, got %d", len(data))
	}
	first := data[0].(map[string]any)
	if first["id"] != "fake-6" {
		t.Fatalf("expected the page to start at the sixth row, got %v", first["id"])
	}

	meta := body["meta"].(map[string]any)
	if meta["total"] != float64(12) || meta["total_pages"] != float64(3) {
		t.Fatalf("unexpected meta: %v", meta)
	}
	if meta["page"] != float64(2) || meta["per_page"] != float64(5) {
		t.Fatalf("unexpected meta: %v", meta)
	}
}

func TestHandler_ListSearchAndSort(t *testing.T) {
	posts := newFakeStore(metadata.KindPost,
		map[string]any{"id": "a", "title": "Intro to Go", "views": int64(50)},
		map[string]any{"id": "b", "title": "Intro to CSS", "views": int64(5)},
		map[string]any{"id": "c", "title": "Advanced Go", "views": int64(500)},
	)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	resp, body := doJSON(t, app, "GET", "/api/post?search=intro&sort=-views", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(data))
	}
	if data[0].(map[string]any)["id"] != "a" {
		t.Fatalf("expected descending views order, got %v", data)
	}

	resp, body = doJSON(t, app, "GET", "/api/post?sort=bogus", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for an unknown sort field, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "UNKNOWN_FIELD" {
		t.Fatalf("unexpected error: %v", errObj)
	}
}

func TestHandler_UnknownKind(t *testing.T) {
	app := testApp(t, newFakeStore(metadata.KindUser), newFakeStore(metadata.KindPost))

	resp, body := doJSON(t, app, "GET", "/api/comment", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "UNKNOWN_ENTITY" {
		t.Fatalf("unexpected error: %v", errObj)
	}
	if !strings.Contains(errObj["message"].(string), "comment") {
		t.Fatalf("expected the kind named in the message, got %v", errObj["message"])
	}
}

func TestHandler_CreateValid(t *testing.T) {
	posts := newFakeStore(metadata.KindPost)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	resp, body := doJSON(t, app, "POST", "/api/post", validPostRecord())
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["id"] == "" || data["id"] == nil {
		t.Fatal("expected the created record with its id")
	}
	if posts.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", posts.createCalls)
	}
}

func TestHandler_CreateInvalidReturns422(t *testing.T) {
	posts := newFakeStore(metadata.KindPost)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	payload := validPostRecord()
	payload["title"] = "abc"
	resp, body := doJSON(t, app, "POST", "/api/post", payload)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "VALIDATION_FAILED" {
		t.Fatalf("unexpected error: %v", errObj)
	}
	details := errObj["details"].([]any)
	if len(details) != 1 {
		t.Fatalf("expected one detail, got %v", details)
	}
	d := details[0].(map[string]any)
	if d["field"] != "title" || d["message"] != "Title must be at least 5 characters" {
		t.Fatalf("unexpected detail: %v", d)
	}
	if posts.createCalls != 0 {
		t.Fatalf("the store must not be contacted, got %d calls", posts.createCalls)
	}
}

func TestHandler_CreateRejectsUnknownFields(t *testing.T) {
	app := testApp(t, newFakeStore(metadata.KindUser), newFakeStore(metadata.KindPost))

	payload := validPostRecord()
	payload["rating"] = 5
	resp, body := doJSON(t, app, "POST", "/api/post", payload)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422 for an unknown field, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	details := errObj["details"].([]any)
	d := details[0].(map[string]any)
	if d["field"] != "rating" {
		t.Fatalf("unexpected detail: %v", d)
	}

	// Store-assigned fields are rejected the same way.
	payload = validPostRecord()
	payload["created_at"] = "2026-01-01T00:00:00Z"
	resp, _ = doJSON(t, app, "POST", "/api/post", payload)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422 for an auto field, got %d", resp.StatusCode)
	}
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	posts := newFakeStore(metadata.KindPost)
	record := validPostRecord()
	created, _ := posts.Create(nil, record)
	id := created["id"].(string)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	payload := validPostRecord()
	payload["title"] = "An Updated Title"
	resp, body := doJSON(t, app, "PUT", "/api/post/"+id, payload)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["data"].(map[string]any)["title"] != "An Updated Title" {
		t.Fatalf("expected the updated record, got %v", body["data"])
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/post/"+id, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp, body = doJSON(t, app, "DELETE", "/api/post/"+id, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 for a missing row, got %d: %v", resp.StatusCode, body)
	}
}

func TestHandler_StatusTransitions(t *testing.T) {
	posts := newFakeStore(metadata.KindPost,
		map[string]any{"id": "p1", "title": "A Draft Post", "status": "draft"},
		map[string]any{"id": "p2", "title": "An Archived Post", "status": "archived"},
	)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	resp, body := doJSON(t, app, "POST", "/api/post/p1/publish", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["data"].(map[string]any)["status"] != "published" {
		t.Fatalf("expected the published record, got %v", body["data"])
	}

	resp, body = doJSON(t, app, "POST", "/api/post/p2/publish", nil)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409 for an invalid transition, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "INVALID_TRANSITION" {
		t.Fatalf("unexpected error: %v", errObj)
	}
	if !strings.Contains(errObj["message"].(string), "archived") {
		t.Fatalf("expected the current state in the message, got %v", errObj["message"])
	}

	resp, _ = doJSON(t, app, "POST", "/api/post/p2/restore", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected restore to succeed, got %d", resp.StatusCode)
	}
}

func TestHandler_Stats(t *testing.T) {
	posts := newFakeStore(metadata.KindPost,
		map[string]any{"id": "p1", "status": "published", "views": int64(10)},
		map[string]any{"id": "p2", "status": "draft", "views": int64(2)},
	)
	app := testApp(t, newFakeStore(metadata.KindUser), posts)

	resp, body := doJSON(t, app, "GET", "/api/post/stats", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	if data["total"] != float64(2) {
		t.Fatalf("unexpected stats: %v", data)
	}
}
