package nx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"camect-relay/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.VMSConfig{URL: url, User: "admin", Password: "pw", Timeout: 2 * time.Second})
}

func TestClient_CreateEvent(t *testing.T) {
	var gotPath, gotCaption, gotMeta, gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCaption = r.URL.Query().Get("caption")
		gotMeta = r.URL.Query().Get("metadata")
		gotUser, gotPass, _ = r.BasicAuth()
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).CreateEvent(context.Background(), "cam3", "id-3"); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/api/createEvent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotCaption != "cam3" {
		t.Errorf("caption = %q", gotCaption)
	}
	if gotMeta != `{"cameraRefs":["id-3"]}` {
		t.Errorf("metadata = %q", gotMeta)
	}
	if gotUser != "admin" || gotPass != "pw" {
		t.Errorf("basic auth = %q:%q", gotUser, gotPass)
	}
}

func TestClient_SaveEventRule(t *testing.T) {
	var gotBody []byte
	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ec2/saveEventRule" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	body := []byte(`{"id":"{rule}","disabled":true}`)
	if err := newTestClient(server.URL).SaveEventRule(context.Background(), body); err != nil {
		t.Fatal(err)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %s, want verbatim payload", gotBody)
	}
	if gotType != "application/json" {
		t.Errorf("content-type = %q", gotType)
	}
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "Unauthorized")
	}))
	defer server.Close()

	err := newTestClient(server.URL).SaveEventRule(context.Background(), []byte(`{}`))

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if serr.Code != http.StatusUnauthorized {
		t.Errorf("code = %d", serr.Code)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := newTestClient(url).CreateEvent(context.Background(), "cam1", "id-1")

	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if nerr.Op != "createEvent" {
		t.Errorf("op = %q", nerr.Op)
	}
}
