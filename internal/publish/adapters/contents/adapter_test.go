package contents

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

const filePath = "/repos/octo/os/contents/.github/pr-images/qemu-screen-smoke.png"

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := gogithub.NewClient(nil)
	baseURL, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parsing server url: %v", err)
	}
	client.BaseURL = baseURL
	return New(client)
}

func testLocation() domain.FileLocation {
	return domain.FileLocation{
		Owner:  "octo",
		Repo:   "os",
		Branch: "feat/vga",
		Path:   ".github/pr-images/qemu-screen-smoke.png",
	}
}

func TestAdapter_Lookup(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		want         domain.RemoteFile
		wantNotFound bool
		wantErr      bool
	}{
		{
			name:   "existing file returns sha",
			status: http.StatusOK,
			body:   `{"type":"file","name":"qemu-screen-smoke.png","sha":"abc123"}`,
			want:   domain.RemoteFile{SHA: "abc123"},
		},
		{
			name:   "directory listing has no sha",
			status: http.StatusOK,
			body:   `[{"type":"file","name":"a.png","sha":"111"}]`,
			want:   domain.RemoteFile{IsDir: true},
		},
		{
			name:         "404 maps to NotFoundError",
			status:       http.StatusNotFound,
			body:         `{"message":"Not Found"}`,
			wantNotFound: true,
			wantErr:      true,
		},
		{
			name:    "server error is returned as is",
			status:  http.StatusInternalServerError,
			body:    `{"message":"boom"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != filePath {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if got := r.URL.Query().Get("ref"); got != "feat/vga" {
					t.Errorf("ref = %q, want %q", got, "feat/vga")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			got, err := adapter.Lookup(context.Background(), testLocation())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if domain.IsNotFound(err) != tt.wantNotFound {
				t.Errorf("IsNotFound(%v) = %v, want %v", err, domain.IsNotFound(err), tt.wantNotFound)
			}
			if err == nil && got != tt.want {
				t.Errorf("Lookup() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdapter_Lookup_NotFoundKeepsResponse(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	_, err := adapter.Lookup(context.Background(), testLocation())

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Lookup() error = %v, want NotFoundError", err)
	}
	if notFound.Location != testLocation() {
		t.Errorf("Location = %+v, want %+v", notFound.Location, testLocation())
	}
	var ghErr *gogithub.ErrorResponse
	if !errors.As(err, &ghErr) {
		t.Fatalf("Lookup() error = %v, want it to wrap the API response", err)
	}
	if ghErr.Response.StatusCode != http.StatusNotFound || ghErr.Message != "Not Found" {
		t.Errorf("API response = %d %q", ghErr.Response.StatusCode, ghErr.Message)
	}
}

func TestAdapter_Put(t *testing.T) {
	sha := "abc123"

	tests := []struct {
		name     string
		priorSHA *string
		respBody string
		wantSHA  string
		wantURL  string
	}{
		{
			name:     "create omits sha",
			priorSHA: nil,
			respBody: `{"content":{"download_url":"https://raw.example/smoke.png"}}`,
			wantURL:  "https://raw.example/smoke.png",
		},
		{
			name:     "update sends prior sha",
			priorSHA: &sha,
			respBody: `{"content":{}}`,
			wantSHA:  "abc123",
			wantURL:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != filePath {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}

				var body map[string]any
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("decoding request body: %v", err)
				}

				gotSHA, hasSHA := body["sha"]
				if tt.wantSHA == "" && hasSHA {
					t.Errorf("request carried sha %v, want none", gotSHA)
				}
				if tt.wantSHA != "" && gotSHA != tt.wantSHA {
					t.Errorf("sha = %v, want %q", gotSHA, tt.wantSHA)
				}
				if body["branch"] != "feat/vga" {
					t.Errorf("branch = %v, want %q", body["branch"], "feat/vga")
				}
				if body["message"] != "Add smoke VNC screenshot for #7" {
					t.Errorf("message = %v", body["message"])
				}

				encoded, _ := body["content"].(string)
				decoded, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					t.Fatalf("content is not base64: %v", err)
				}
				if string(decoded) != "png-bytes" {
					t.Errorf("content = %q, want %q", decoded, "png-bytes")
				}

				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.respBody)
			})

			res, err := adapter.Put(context.Background(), domain.FileWrite{
				Location: testLocation(),
				Message:  "Add smoke VNC screenshot for #7",
				Content:  []byte("png-bytes"),
				PriorSHA: tt.priorSHA,
			})
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if res.DownloadURL != tt.wantURL {
				t.Errorf("DownloadURL = %q, want %q", res.DownloadURL, tt.wantURL)
			}
		})
	}
}

func TestAdapter_Put_Error(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"sha does not match"}`)
	})

	_, err := adapter.Put(context.Background(), domain.FileWrite{
		Location: testLocation(),
		Message:  "msg",
		Content:  []byte("x"),
	})
	if err == nil {
		t.Fatal("Put() expected error on 409")
	}
	if domain.IsNotFound(err) {
		t.Error("conflict must not be reported as not found")
	}
}
