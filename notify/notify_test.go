package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/gradewatch/grades"
)

func TestRenderChangesNewEntry(t *testing.T) {
	changes := grades.ChangeSet{
		{Key: "Physics", Current: grades.Record{Course: "Physics", Grade: "77"}},
	}
	msg := RenderChanges(changes, grades.Catalog{})
	if !strings.Contains(msg, "*Physics* (New): 77") {
		t.Errorf("missing new-entry line:\n%s", msg)
	}
}

func TestRenderChangesGradeAndNotebook(t *testing.T) {
	prev := grades.Record{Course: "Algebra", Grade: "85", NotebookAvailable: false}
	changes := grades.ChangeSet{
		{
			Key:      "Algebra",
			Previous: &prev,
			Current:  grades.Record{Course: "Algebra", Grade: "90", NotebookAvailable: true},
		},
	}
	msg := RenderChanges(changes, grades.Catalog{})
	if !strings.Contains(msg, "Grade changed from `85` to *90*") {
		t.Errorf("missing grade transition:\n%s", msg)
	}
	if !strings.Contains(msg, "Notebook is now available") {
		t.Errorf("missing notebook transition:\n%s", msg)
	}
}

func TestRenderChangesUntrackedFieldFallback(t *testing.T) {
	prev := grades.Record{Course: "History", Grade: "70", Date: "2024-01-01"}
	changes := grades.ChangeSet{
		{
			Key:      "History",
			Previous: &prev,
			Current:  grades.Record{Course: "History", Grade: "70", Date: "2024-02-02"},
		},
	}
	msg := RenderChanges(changes, grades.Catalog{})
	if !strings.Contains(msg, "*History*: Updated (Grade: 70)") {
		t.Errorf("missing fallback line:\n%s", msg)
	}
}

func TestRenderChangesUsesCatalogName(t *testing.T) {
	changes := grades.ChangeSet{
		{Key: "03661101", Current: grades.Record{Course: "03661101", Grade: "88"}},
	}
	cat := grades.Catalog{"03661101": "Linear Algebra"}
	msg := RenderChanges(changes, cat)
	if !strings.Contains(msg, "*Linear Algebra*") {
		t.Errorf("catalog name not applied:\n%s", msg)
	}
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("tok123", "chat42", WithEndpoint(srv.URL))
	if err := tg.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/bottok123/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["chat_id"] != "chat42" || gotBody["text"] != "hello" {
		t.Errorf("body = %v", gotBody)
	}
	if gotBody["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %q", gotBody["parse_mode"])
	}
}

func TestTelegramSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tg := NewTelegram("tok", "chat", WithEndpoint(srv.URL))
	if err := tg.Send(context.Background(), "x"); err == nil {
		t.Error("expected error for 403 response")
	}
}
