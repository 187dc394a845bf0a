// Package runner drives the interactive manual test session against a media
// server: login, library selection, the chosen test cases, logout.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"embydebug/internal/config"
	"embydebug/internal/emby"
	"embydebug/internal/logger"
)

// Exit codes reported through ExitError.
const (
	ExitConfig    = 1
	ExitRetrieval = 2
)

const licenseBanner = `%s %s
This program comes with ABSOLUTELY NO WARRANTY. This is free software, and you are
welcome to redistribute it under certain conditions; see LICENSE for details.`

// ExitError carries the process exit status for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Options identify the program to the server and pick the test cases.
type Options struct {
	Name     string
	Version  string
	Platform string
	Hostname string

	// EnvFile is the .env file that was loaded, or "" when none was found.
	EnvFile string

	// Tests names registry entries to run in order. With neither Tests nor
	// All set, the runner offers a menu.
	Tests []string
	All   bool
}

// IO holds the console streams. Out receives JSON results only.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Runner executes one manual test session.
type Runner struct {
	cfg    *config.Config
	opts   Options
	io     IO
	dial   Dialer
	log    *logger.Logger
	prompt *Prompter
}

// New creates a runner. Nothing touches the network until Run or Check.
func New(cfg *config.Config, opts Options, stdio IO, dial Dialer, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		cfg:    cfg,
		opts:   opts,
		io:     stdio,
		dial:   dial,
		log:    log,
		prompt: NewPrompter(stdio.In, stdio.Err),
	}
}

// ClientInfo builds the client and device names shown in the server dashboard.
func (r *Runner) ClientInfo() emby.ClientInfo {
	return emby.ClientInfo{
		Name:    r.opts.Name,
		Version: r.opts.Version,
		Device:  fmt.Sprintf("%s (%s)", r.opts.Hostname, r.opts.Platform),
	}
}

// Run performs the full session. It returns nil on a clean logout or an
// *ExitError describing the failure.
func (r *Runner) Run(ctx context.Context) error {
	selected, err := r.selectCases()
	if err != nil {
		r.statusf("Fatal error, %v", err)
		return &ExitError{Code: ExitConfig, Err: err}
	}

	s, err := r.login(ctx)
	if err != nil {
		return err
	}

	libs, err := s.Server.Libraries(ctx)
	if err == nil && len(libs) == 0 {
		err = errors.New("no libraries are available on the media server")
	}
	if err != nil {
		r.errorf("failed to retrieve library list: %v", err)
		return r.abort(ctx, s, err)
	}
	s.Libraries = libs
	r.statusf("Found %d available libraries", len(libs))
	r.printJSON(libs)

	if r.chooseLibrary(s) {
		if err := r.runCases(ctx, s, selected); err != nil {
			return r.abort(ctx, s, err)
		}
	}

	return r.logout(ctx, s)
}

// Check logs in, lists the libraries and logs out without prompting.
func (r *Runner) Check(ctx context.Context) error {
	s, err := r.login(ctx)
	if err != nil {
		return err
	}

	libs, err := s.Server.Libraries(ctx)
	if err != nil {
		r.errorf("failed to retrieve library list: %v", err)
		return r.abort(ctx, s, err)
	}
	r.statusf("Found %d available libraries", len(libs))
	for _, lib := range libs {
		r.statusf("  %s (%s)", lib.Name, lib.Type)
	}

	return r.logout(ctx, s)
}

// login validates the credentials and authenticates.
func (r *Runner) login(ctx context.Context) (*Session, error) {
	if err := r.cfg.Emby.Validate(); err != nil {
		r.statusf("Fatal error, %v. Ensure the .env file or environment contains EMBY_SERVER_URL, EMBY_USERNAME, EMBY_PASSWORD", err)
		if r.opts.EnvFile == "" {
			r.statusf("No .env file was found in the working directory or any parent directory")
		}
		return nil, &ExitError{Code: ExitConfig, Err: err}
	}

	if n, ok, err := r.cfg.LLM.MaxItemCount(); err != nil {
		r.log.WithError(err).Warn("ignoring LLM_MAX_ITEMS")
	} else if ok {
		r.log.WithField("max_items", n).Debug("LLM_MAX_ITEMS set")
	}

	server := r.dial(r.cfg, r.ClientInfo())
	auth, err := server.Login(ctx, r.cfg.Emby.Username, r.cfg.Emby.Password)
	if err != nil {
		r.statusf("Fatal ERROR: login to media server failed: %v", err)
		r.log.WithError(err).Error("login failed")
		return nil, &ExitError{Code: ExitConfig, Err: err}
	}

	r.log.WithField("user_id", auth.UserID).Info("logged in to media server")
	r.statusf("Logon to media server was successful. \n\n"+licenseBanner+"\n", r.opts.Name, r.opts.Version)

	return &Session{Server: server, UserID: auth.UserID}, nil
}

// chooseLibrary prompts until a library is selected. It returns false when
// the operator gives up.
func (r *Runner) chooseLibrary(s *Session) bool {
	def := r.cfg.Defaults.Library
	for {
		name := r.prompt.AskDefault("Enter name of library to select", def, "")
		if name == Sentinel {
			r.statusf("No library selected")
			return false
		}

		r.statusf("Selecting library: %s", name)
		lib, err := emby.SelectLibrary(s.Libraries, name)
		if err != nil {
			r.statusf("%v", err)
			continue
		}

		s.Library = lib
		r.log.WithField("library", lib.Name).Info("library selected")
		r.statusf("Current library is now: %s", lib.Name)
		return true
	}
}

// abort logs out after a fatal error and reports the retrieval exit code.
func (r *Runner) abort(ctx context.Context, s *Session, cause error) error {
	if err := s.Server.Logout(ctx); err != nil {
		r.log.WithError(err).Warn("logout after failure")
	}
	return &ExitError{Code: ExitRetrieval, Err: cause}
}

func (r *Runner) logout(ctx context.Context, s *Session) error {
	if err := s.Server.Logout(ctx); err != nil {
		r.errorf("logout from media server failed: %v", err)
		return &ExitError{Code: ExitRetrieval, Err: err}
	}
	r.log.Info("logged out of media server")
	r.statusf("Logout from media server was successful")
	return nil
}
