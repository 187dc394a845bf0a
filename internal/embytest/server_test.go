package embytest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"embydebug/internal/logger"

	"github.com/labstack/echo/v4"
)

func send(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(`{"Username":"tester","Pw":"secret"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Emby-Token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestParamRouteAddedAfterTraffic(t *testing.T) {
	s := New()
	defer s.Close()

	if resp := send(t, http.MethodPost, s.URL+"/emby/Users/AuthenticateByName", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var gotID, gotCommand string
	s.Handle(http.MethodPost, "/emby/Sessions/:id/Playing/:command", func(c echo.Context) error {
		gotID, gotCommand = c.Param("id"), c.Param("command")
		return c.NoContent(http.StatusNoContent)
	})
	s.JSON(http.MethodPost, "/emby/Items/:id/MakePublic", http.StatusNoContent, nil)

	if resp := send(t, http.MethodPost, s.URL+"/emby/Items/pl-1/MakePublic", Token); resp.StatusCode != http.StatusNoContent {
		t.Errorf("make public status = %d", resp.StatusCode)
	}
	if resp := send(t, http.MethodPost, s.URL+"/emby/Sessions/s1/Playing/Pause", Token); resp.StatusCode != http.StatusNoContent {
		t.Errorf("playing status = %d", resp.StatusCode)
	}
	if gotID != "s1" || gotCommand != "Pause" {
		t.Errorf("params = %q, %q", gotID, gotCommand)
	}
	if s.Count(http.MethodPost, "/emby/Items/pl-1/MakePublic") != 1 {
		t.Errorf("requests = %+v", s.Requests())
	}
}

func TestHandleReplacesHandler(t *testing.T) {
	s := New()
	defer s.Close()

	s.Fail(http.MethodGet, "/emby/Genres", http.StatusInternalServerError, "down")
	s.JSON(http.MethodGet, "/emby/Genres", http.StatusOK, map[string]any{"Items": []any{}})

	if resp := send(t, http.MethodGet, s.URL+"/emby/Genres", Token); resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want replaced handler", resp.StatusCode)
	}
}

func TestRequireToken(t *testing.T) {
	s := New()
	defer s.Close()
	s.JSON(http.MethodGet, "/emby/Genres", http.StatusOK, map[string]any{})

	resp := send(t, http.MethodGet, s.URL+"/emby/Genres", "stale")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Access token is invalid") {
		t.Errorf("body = %s", body)
	}
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRecorderRejectsUnreadableBody(t *testing.T) {
	s := &Server{handlers: make(map[string]echo.HandlerFunc)}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/emby/Playlists", io.NopCloser(brokenBody{}))
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	h := Recorder(s, logger.Discard())(func(echo.Context) error {
		called = true
		return nil
	})

	err := h(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
	if called {
		t.Error("handler ran with an unreadable body")
	}
	if len(s.Requests()) != 0 {
		t.Error("unreadable request was recorded")
	}
}
