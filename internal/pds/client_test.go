package pds

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/desertthunder/sati/internal/shared"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient", func(t *testing.T) {
		t.Run("defaults host and trims trailing slash", func(t *testing.T) {
			client := NewClient("", nil)
			if client.Host() != "https://bsky.social" {
				t.Errorf("expected default host, got %s", client.Host())
			}

			client = NewClient("https://pds.example.com/", nil)
			if client.Host() != "https://pds.example.com" {
				t.Errorf("expected trimmed host, got %s", client.Host())
			}
		})

		t.Run("SetHTTPClient ignores nil", func(t *testing.T) {
			client := NewClient("", nil)
			client.SetHTTPClient(nil)
			if client.httpClient == nil {
				t.Error("expected http client to remain set")
			}
		})
	})

	t.Run("CreateRecord", func(t *testing.T) {
		t.Run("posts the record envelope", func(t *testing.T) {
			var gotPath string
			var gotBody map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				data, _ := io.ReadAll(r.Body)
				json.Unmarshal(data, &gotBody)
				json.NewEncoder(w).Encode(CreateRecordResponse{URI: "at://did:plc:x/coll/rkey", CID: "bafy", ValidationStatus: "valid"})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			resp, err := client.CreateRecord(ctx, "did:plc:x", "coll", map[string]any{"duration": 60})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotPath != "/xrpc/com.atproto.repo.createRecord" {
				t.Errorf("unexpected path %s", gotPath)
			}
			if gotBody["repo"] != "did:plc:x" || gotBody["collection"] != "coll" {
				t.Errorf("unexpected envelope: %v", gotBody)
			}
			if resp.URI != "at://did:plc:x/coll/rkey" || resp.CID != "bafy" {
				t.Errorf("unexpected response: %+v", resp)
			}
		})

		t.Run("maps error responses to APIError", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "InvalidRequest", "message": "bad record"})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			_, err := client.CreateRecord(ctx, "did:plc:x", "coll", nil)

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "InvalidRequest" {
				t.Errorf("unexpected APIError: %+v", apiErr)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected APIError to unwrap to ErrAPIRequest")
			}
		})

		t.Run("handles non-JSON error bodies", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("gateway timeout"))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			_, err := client.CreateRecord(ctx, "did:plc:x", "coll", nil)

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusBadGateway {
				t.Errorf("expected status 502, got %d", apiErr.StatusCode)
			}
		})
	})

	t.Run("ListRecords", func(t *testing.T) {
		t.Run("encodes listing parameters", func(t *testing.T) {
			var gotQuery map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = map[string]string{}
				for k := range r.URL.Query() {
					gotQuery[k] = r.URL.Query().Get(k)
				}
				json.NewEncoder(w).Encode(ListRecordsResponse{Cursor: "tok"})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			resp, err := client.ListRecords(ctx, "did:plc:x", "coll", 25, true, "prev")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := map[string]string{
				"repo":       "did:plc:x",
				"collection": "coll",
				"limit":      "25",
				"reverse":    "true",
				"cursor":     "prev",
			}
			for k, v := range want {
				if gotQuery[k] != v {
					t.Errorf("expected %s=%s, got %s", k, v, gotQuery[k])
				}
			}
			if resp.Cursor != "tok" {
				t.Errorf("expected cursor tok, got %q", resp.Cursor)
			}
		})

		t.Run("omits reverse and cursor when unset", func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				json.NewEncoder(w).Encode(ListRecordsResponse{})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			if _, err := client.ListRecords(ctx, "did:plc:x", "coll", 50, false, ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			parsed, err := url.ParseQuery(gotQuery)
			if err != nil {
				t.Fatalf("failed to parse query: %v", err)
			}
			for _, param := range []string{"reverse", "cursor"} {
				if _, ok := parsed[param]; ok {
					t.Errorf("expected %s to be absent, got query %s", param, gotQuery)
				}
			}
		})
	})

	t.Run("ResolveHandle", func(t *testing.T) {
		t.Run("returns the resolved DID", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/xrpc/com.atproto.identity.resolveHandle" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("handle") != "alice.example.com" {
					t.Errorf("unexpected handle %s", r.URL.Query().Get("handle"))
				}
				json.NewEncoder(w).Encode(map[string]string{"did": "did:plc:alice"})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			did, err := client.ResolveHandle(ctx, "alice.example.com")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if did != "did:plc:alice" {
				t.Errorf("expected did:plc:alice, got %s", did)
			}
		})

		t.Run("rejects an empty DID", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, nil)
			_, err := client.ResolveHandle(ctx, "alice.example.com")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}
