// Package embytest runs a scripted Emby server for tests.
package embytest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"embydebug/internal/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Default credentials accepted by the login route.
const (
	Username = "tester"
	Password = "secret"
	Token    = "test-token"
	UserID   = "user-1"
)

// Server is an httptest server backed by echo. Routes answer with whatever
// the test registered; unregistered routes return 404.
type Server struct {
	URL string

	ts     *httptest.Server
	logger *logger.Logger

	mu       sync.Mutex
	echo     *echo.Echo
	routes   []route
	handlers map[string]echo.HandlerFunc
	requests []Request
}

type route struct {
	method string
	path   string
}

// New starts a server with the login and logout routes in place.
func New() *Server {
	s := &Server{
		logger:   logger.Discard(),
		handlers: make(map[string]echo.HandlerFunc),
	}
	s.setupRoutes()

	s.ts = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	s.URL = s.ts.URL
	return s
}

// newEcho builds an echo instance holding every route registered so far.
// echo sizes pooled contexts by the route set it had when they were created,
// so a new route pattern needs a fresh instance.
func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	s.setupEcho(e)
	s.setupMiddleware(e)
	for _, r := range s.routes {
		e.Add(r.method, r.path, s.dispatch)
	}
	return e
}

func (s *Server) setupEcho(e *echo.Echo) {
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
}

func (s *Server) setupMiddleware(e *echo.Echo) {
	e.Use(echomiddleware.Recover())
	e.Use(Recorder(s, s.logger))
	e.Use(s.requireToken)
}

func (s *Server) setupRoutes() {
	s.Handle(http.MethodPost, "/emby/Users/AuthenticateByName", s.authenticate)
	s.Handle(http.MethodPost, "/emby/Sessions/Logout", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	e := s.echo
	s.mu.Unlock()

	e.ServeHTTP(w, r)
}

// Close shuts the server down.
func (s *Server) Close() {
	s.ts.Close()
}

// Handle registers h for method and an echo route pattern such as
// "/emby/Users/:id/Items". Registering the same route again replaces the
// handler. Routes may be added while the server is running.
func (s *Server) Handle(method, path string, h echo.HandlerFunc) {
	key := method + " " + path

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.handlers[key]
	s.handlers[key] = h
	if !exists {
		s.routes = append(s.routes, route{method: method, path: path})
		s.echo = s.newEcho()
	}
}

// JSON registers a route that always answers with status and body.
func (s *Server) JSON(method, path string, status int, body any) {
	s.Handle(method, path, func(c echo.Context) error {
		if body == nil {
			return c.NoContent(status)
		}
		return c.JSON(status, body)
	})
}

// Fail registers a route that always answers with status and a plain text
// message.
func (s *Server) Fail(method, path string, status int, message string) {
	s.Handle(method, path, func(c echo.Context) error {
		return c.String(status, message)
	})
}

func (s *Server) dispatch(c echo.Context) error {
	s.mu.Lock()
	h := s.handlers[c.Request().Method+" "+c.Path()]
	s.mu.Unlock()

	if h == nil {
		return echo.ErrNotFound
	}
	return h(c)
}

type authenticateBody struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

func (s *Server) authenticate(c echo.Context) error {
	var body authenticateBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed login request")
	}
	if body.Username != Username || body.Pw != Password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password entered.")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"AccessToken": Token,
		"ServerId":    "server-1",
		"User":        map[string]any{"Id": UserID, "Name": Username},
	})
}

// requireToken rejects every call except login that lacks the access token.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().URL.Path == "/emby/Users/AuthenticateByName" {
			return next(c)
		}
		if c.Request().Header.Get("X-Emby-Token") != Token {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access token is invalid or expired.")
		}
		return next(c)
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if !c.Response().Committed {
		if err := c.String(code, message); err != nil {
			s.logger.WithError(err).Error("failed to send error response")
		}
	}
}
