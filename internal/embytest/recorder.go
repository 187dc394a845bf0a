package embytest

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"embydebug/internal/logger"

	"github.com/labstack/echo/v4"
)

// Request is a call the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Recorder returns middleware that stores every request on s and logs it.
func Recorder(s *Server, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			var body []byte
			if req.Body != nil {
				var err error
				body, err = io.ReadAll(req.Body)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "cannot read request body: "+err.Error())
				}
				req.Body = io.NopCloser(bytes.NewReader(body))
			}

			s.mu.Lock()
			s.requests = append(s.requests, Request{
				Method: req.Method,
				Path:   req.URL.Path,
				Query:  req.URL.Query(),
				Header: req.Header.Clone(),
				Body:   body,
			})
			s.mu.Unlock()

			err := next(c)

			fields := map[string]interface{}{
				"method":  req.Method,
				"path":    req.URL.Path,
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			log.WithFields(fields).Debug("fake emby request")

			return err
		}
	}
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count reports how many requests hit method and path exactly.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to method and path.
func (s *Server) Last(method, path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}
