package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
)

func TestFetchConfigSendsUserHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/config" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get(UserHeader); got != "u-1" {
			t.Errorf("%s = %q, want %q", UserHeader, got, "u-1")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"naming_scheme":"uuid"}`))
	}))
	t.Cleanup(srv.Close)

	cfg, err := NewClient(srv.URL+"/", "u-1").FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("fetch config: %v", err)
	}
	if cfg[domain.ConfigKeyNamingScheme] != "uuid" {
		t.Fatalf("naming_scheme = %v, want %q", cfg[domain.ConfigKeyNamingScheme], "uuid")
	}
}

func TestSubmitReturnsStoredMessage(t *testing.T) {
	t.Parallel()

	storedID := domain.NewMessageID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/posts" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var msg domain.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode body: %v", err)
		}
		msg.ID = storedID
		json.NewEncoder(w).Encode(msg)
	}))
	t.Cleanup(srv.Close)

	props := domain.BuildMeetingProps("", "eng-town-square")
	msg := domain.NewMeetingMessage("ch-1", "u-1", props, time.Now())
	stored, err := NewClient(srv.URL, "u-1").Submit(context.Background(), msg)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if stored.ID != storedID {
		t.Fatalf("id = %s, want %s", stored.ID, storedID)
	}
	got, ok := stored.MeetingProps()
	if !ok || got != props {
		t.Fatalf("props = %+v, want %+v", got, props)
	}
}

func TestErrorStatusMapsToSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid context", http.StatusBadRequest, `{"error":"nope","code":"invalid_context"}`, domain.ErrInvalidContext},
		{"invalid message", http.StatusBadRequest, `{"error":"nope","code":"invalid_message"}`, domain.ErrInvalidMessage},
		{"invalid config", http.StatusBadRequest, `{"error":"nope","code":"invalid_config"}`, domain.ErrInvalidConfig},
		{"not found", http.StatusNotFound, `{"error":"nope","code":"not_found"}`, domain.ErrNotFound},
		{"not found without code", http.StatusNotFound, `{"error":"nope"}`, domain.ErrNotFound},
		{"conflict", http.StatusConflict, `{"error":"nope","code":"already_exists"}`, domain.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewClient(srv.URL, "u-1").ListPosts(context.Background(), "ch-1", 10)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) || apiErr.Message != "nope" {
				t.Fatalf("api error = %+v", apiErr)
			}
		})
	}
}

func TestBadRequestWithoutCodeIsNotMisclassified(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid JSON body","code":"invalid_request"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "u-1").FetchConfig(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, sentinel := range []error{domain.ErrInvalidMessage, domain.ErrInvalidContext, domain.ErrInvalidConfig} {
		if errors.Is(err, sentinel) {
			t.Fatalf("err = %v, must not match %v", err, sentinel)
		}
	}
}

func TestUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing user", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "").FetchConfig(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestListPostsQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/channels/ch-1/posts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want %q", got, "5")
		}
		w.Write([]byte(`[{"channel_id":"ch-1","user_id":"u-2","message":"hi"}]`))
	}))
	t.Cleanup(srv.Close)

	posts, err := NewClient(srv.URL, "u-1").ListPosts(context.Background(), "ch-1", 5)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].Content != "hi" {
		t.Fatalf("posts = %+v", posts)
	}
}

func TestStartMeeting(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["channel_name"] != "town-square" || req["team_name"] != "eng" {
			t.Errorf("body = %v", req)
		}
		if req["channel_type"] != "O" || req["user_name"] != "alice" {
			t.Errorf("body = %v", req)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"meeting_id":"eng-town-square","post":{"channel_id":"ch-1","type":"custom_gmeet_post_type"}}`))
	}))
	t.Cleanup(srv.Close)

	channel := domain.Channel{ID: "ch-1", Name: "town-square", Type: domain.ChannelTypeOpen}
	id, post, err := NewClient(srv.URL, "u-1").StartMeeting(context.Background(), channel, domain.Team{Name: "eng"}, "alice")
	if err != nil {
		t.Fatalf("start meeting: %v", err)
	}
	if id != "eng-town-square" || !post.IsMeeting() {
		t.Fatalf("id = %q, post = %+v", id, post)
	}
}
