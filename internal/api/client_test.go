package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"compdash/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), srv
}

func TestLogin_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"token":"tok-1","user":{"id":1,"name":"Admin User","email":"admin@superops.com","role":"admin"}}`))
	}))

	resp, err := c.Login(context.Background(), "admin@superops.com", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Token = %q", resp.Token)
	}
	if resp.User.Name != "Admin User" {
		t.Errorf("User.Name = %q", resp.User.Name)
	}

	// The token must ride on subsequent requests.
	var gotAuth string
	c2, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	c2.SetToken("tok-1")
	if err := c2.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))

	_, err := c.Login(context.Background(), "admin@superops.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestUpload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		f.Close()
		if hdr.Filename != "data.csv" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		w.Write([]byte(`{"success":true,"file_id":"abc123","filename":"data.csv","size":42,"rows":1000,"uploaded_at":"2026-08-28T10:00:00"}`))
	}))

	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := c.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resp.FileID != "abc123" || resp.Rows != 1000 || resp.Filename != "data.csv" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestUpload_MissingFileID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"filename":"data.csv"}`))
	}))

	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Upload(context.Background(), path); err == nil {
		t.Fatal("expected error when server omits file_id")
	}
}

func TestExecute(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"mode":"quick","stages":[
			{"name":"Data Upload","description":"File uploaded and validated","status":"completed","recordsProcessed":1000},
			{"name":"Rule Application","description":"Applying policy rules to data","status":"completed","executionTime":1.25,"recordsProcessed":1000}
		],"records_processed":1000}`))
	}))

	resp, err := c.Execute(context.Background(), "abc123", model.ModeQuick)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Stages) != 2 {
		t.Fatalf("stages = %d", len(resp.Stages))
	}
	if resp.Stages[1].Status != model.StageCompleted {
		t.Errorf("stage status = %q", resp.Stages[1].Status)
	}
	if resp.Stages[1].ExecutionTime != 1.25 {
		t.Errorf("executionTime = %v", resp.Stages[1].ExecutionTime)
	}
}

func TestResults_NormalizesRecords(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"results":[
			{"framework":"ISO 27001","obligationId":"A.9.1.1","description":"Access control","status":"Partial","confidence_score":71,"severity":"High"}
		],"count":1,"total":1}`))
	}))

	resp, err := c.Results(context.Background(), ResultsQuery{Limit: 100})
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	r := resp.Results[0]
	if r.Status != model.StatusRequiresAction {
		t.Errorf("Status = %q, want normalized Requires Action", r.Status)
	}
	if r.Confidence != 0.71 {
		t.Errorf("Confidence = %v, want 0.71 on the canonical scale", r.Confidence)
	}
}

func TestNotifications(t *testing.T) {
	var markedID string
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"notifications":[{"id":"n-1","title":"High Severity","message":"m","severity":"critical","read":false}],"unread_count":1}`))
	})
	mux.HandleFunc("/notifications/unread", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"notifications":[],"count":3}`))
	})
	mux.HandleFunc("/notifications/n-1/read", func(w http.ResponseWriter, r *http.Request) {
		markedID = "n-1"
		w.Write([]byte(`{"success":true}`))
	})
	c, _ := newTestClient(t, mux)

	inbox, err := c.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if inbox.UnreadCount != 1 || len(inbox.Notifications) != 1 {
		t.Errorf("unexpected inbox %+v", inbox)
	}

	count, err := c.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d", count)
	}

	if err := c.MarkRead(context.Background(), "n-1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if markedID != "n-1" {
		t.Error("mark read never reached the server")
	}
}

func TestChat(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply":"All ISO 27001 controls look fine."}`))
	}))
	reply, err := c.Chat(context.Background(), "how are we doing?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply == "" {
		t.Error("empty reply")
	}
}

func TestHealth_Offline(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond)
	if err := c.Health(context.Background()); err == nil {
		t.Fatal("expected connectivity error")
	}
}
