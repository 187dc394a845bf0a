package emby

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"embydebug/internal/embytest"
)

func newClient(srv *embytest.Server) *Client {
	return New(Options{
		ServerURL: srv.URL + "/",
		Timeout:   5 * time.Second,
		Info:      ClientInfo{Name: "embydebug", Version: "1.2.3", Device: "host (linux)"},
	})
}

func loggedIn(t *testing.T) (*Client, *embytest.Server) {
	t.Helper()
	srv := embytest.New()
	t.Cleanup(srv.Close)

	c := newClient(srv)
	if _, err := c.Login(context.Background(), embytest.Username, embytest.Password); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	srv.Reset()
	return c, srv
}

func decodeBody(t *testing.T, req embytest.Request, v any) {
	t.Helper()
	if err := json.Unmarshal(req.Body, v); err != nil {
		t.Fatalf("request body is not JSON: %v (%s)", err, req.Body)
	}
}

func TestLogin(t *testing.T) {
	srv := embytest.New()
	defer srv.Close()

	c := newClient(srv)
	res, err := c.Login(context.Background(), embytest.Username, embytest.Password)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.UserID != embytest.UserID || c.UserID() != embytest.UserID {
		t.Errorf("user id = %q, want %q", res.UserID, embytest.UserID)
	}

	req, ok := srv.Last(http.MethodPost, "/emby/Users/AuthenticateByName")
	if !ok {
		t.Fatal("no authenticate request recorded")
	}
	auth := req.Header.Get("X-Emby-Authorization")
	for _, want := range []string{`Emby UserId=""`, `Client="embydebug"`, `Device="host (linux)"`, `Version="1.2.3"`, `DeviceId="`} {
		if !strings.Contains(auth, want) {
			t.Errorf("authorization header %q missing %q", auth, want)
		}
	}

	var body authenticateRequest
	decodeBody(t, req, &body)
	if body.Username != embytest.Username || body.Pw != embytest.Password {
		t.Errorf("login body = %+v", body)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := embytest.New()
	defer srv.Close()

	c := newClient(srv)
	_, err := c.Login(context.Background(), embytest.Username, "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if c.UserID() != "" {
		t.Errorf("user id set after failed login: %q", c.UserID())
	}
}

func TestCallsRequireLogin(t *testing.T) {
	srv := embytest.New()
	defer srv.Close()

	c := newClient(srv)
	if _, err := c.Libraries(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Libraries() error = %v, want ErrNotAuthenticated", err)
	}
	if err := c.Logout(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Logout() error = %v, want ErrNotAuthenticated", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Fatalf("%d requests sent before login", n)
	}
}

func TestLogout(t *testing.T) {
	c, srv := loggedIn(t)

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	req, ok := srv.Last(http.MethodPost, "/emby/Sessions/Logout")
	if !ok {
		t.Fatal("logout not sent")
	}
	if req.Header.Get("X-Emby-Token") != embytest.Token {
		t.Errorf("logout token = %q", req.Header.Get("X-Emby-Token"))
	}
	if _, err := c.Genres(context.Background(), ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("call after logout error = %v, want ErrNotAuthenticated", err)
	}
}

func TestLogoutFailure(t *testing.T) {
	c, srv := loggedIn(t)
	srv.Fail(http.MethodPost, "/emby/Sessions/Logout", http.StatusInternalServerError, "boom")

	err := c.Logout(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Body != "boom" {
		t.Fatalf("Logout() error = %v, want APIError with body", err)
	}
}

func TestLibrariesFilterAndCache(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodGet, "/emby/Library/MediaFolders", http.StatusOK, map[string]any{
		"TotalRecordCount": 3,
		"Items": []map[string]any{
			{"Name": "Music", "Id": "lib-1", "Type": "CollectionFolder", "CollectionType": "music"},
			{"Name": "Playlists", "Id": "lib-2", "Type": "CollectionFolder", "CollectionType": "playlists"},
			{"Name": "Stray", "Id": "x", "Type": "Folder"},
		},
	})

	for i := 0; i < 2; i++ {
		libs, err := c.Libraries(context.Background())
		if err != nil {
			t.Fatalf("Libraries() error = %v", err)
		}
		want := []Library{{Name: "Music", Type: "music", ID: "lib-1"}, {Name: "Playlists", Type: "playlists", ID: "lib-2"}}
		if len(libs) != len(want) {
			t.Fatalf("got %d libraries, want %d", len(libs), len(want))
		}
		for j := range want {
			if libs[j] != want[j] {
				t.Errorf("library %d = %+v, want %+v", j, libs[j], want[j])
			}
		}
	}
	if n := srv.Count(http.MethodGet, "/emby/Library/MediaFolders"); n != 1 {
		t.Errorf("media folders fetched %d times, want 1", n)
	}
}

func TestSelectLibrary(t *testing.T) {
	libs := []Library{{Name: "Music", ID: "1"}, {Name: "Films", ID: "2"}}

	tests := []struct {
		name    string
		libs    []Library
		query   string
		wantID  string
		wantErr error
		wantMsg string
	}{
		{"exact", libs, "Films", "2", nil, ""},
		{"case insensitive", libs, "mUsIc", "1", nil, ""},
		{"missing", libs, "Books", "", ErrNotFound, "Library not found: Books"},
		{"no libraries", nil, "Music", "", ErrNotFound, "No libraries are available."},
		{"blank", libs, "", "", ErrInvalidArgument, "No library name was supplied."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := SelectLibrary(tt.libs, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || err.Error() != tt.wantMsg {
					t.Fatalf("error = %v, want %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil || lib.ID != tt.wantID {
				t.Fatalf("got %+v, %v; want id %s", lib, err, tt.wantID)
			}
		})
	}
}

func TestGenres(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodGet, "/emby/Genres", http.StatusOK, map[string]any{
		"Items": []map[string]any{{"Name": "Jazz"}, {"Name": "Folk"}},
	})

	genres, err := c.Genres(context.Background(), "lib-1")
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if strings.Join(genres, ",") != "Jazz,Folk" {
		t.Errorf("genres = %v", genres)
	}

	req, _ := srv.Last(http.MethodGet, "/emby/Genres")
	if req.Query.Get("ParentId") != "lib-1" || req.Query.Get("Recursive") != "true" {
		t.Errorf("query = %v", req.Query)
	}
}
