package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Case is one manual test. A returned error is fatal and ends the run;
// recoverable failures are reported inside the case.
type Case struct {
	Name  string
	Title string
	run   func(r *Runner, ctx context.Context, s *Session) error
}

var registry = []Case{
	{"genres", "List genres in the current library", (*Runner).caseGenres},
	{"items", "Search the current library for items", (*Runner).caseItems},
	{"users", "List users", (*Runner).caseUsers},
	{"playlists", "List playlists", (*Runner).casePlaylists},
	{"playlist-items", "List the items on a playlist", (*Runner).casePlaylistItems},
	{"playlist-create", "Create a playlist", (*Runner).casePlaylistCreate},
	{"playlist-add", "Add items to a playlist", (*Runner).casePlaylistAdd},
	{"playlist-remove", "Remove items from a playlist", (*Runner).casePlaylistRemove},
	{"playlist-move", "Move an item within a playlist", (*Runner).casePlaylistMove},
	{"playlist-share", "Change playlist sharing", (*Runner).casePlaylistShare},
	{"playlist-meta", "Rename a playlist or change its overview", (*Runner).casePlaylistMeta},
	{"sessions", "List player sessions", (*Runner).caseSessions},
	{"playqueue", "Show a player session's queue", (*Runner).casePlayQueue},
	{"player-command", "Send a command to a player session", (*Runner).casePlayerCommand},
}

// Cases returns the registered test cases in menu order.
func Cases() []Case {
	return append([]Case(nil), registry...)
}

func lookupCase(name string) (Case, bool) {
	for _, c := range registry {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Case{}, false
}

// selectCases resolves the --test and --all options. A nil result with no
// error means the menu decides.
func (r *Runner) selectCases() ([]Case, error) {
	if r.opts.All {
		return Cases(), nil
	}

	var selected []Case
	var unknown []string
	for _, opt := range r.opts.Tests {
		for _, name := range strings.Split(opt, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			c, ok := lookupCase(name)
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			selected = append(selected, c)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown test case: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// runCases runs the preselected cases, or the menu when none were chosen.
func (r *Runner) runCases(ctx context.Context, s *Session, selected []Case) error {
	if selected != nil {
		for _, c := range selected {
			if err := r.runCase(ctx, s, c); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		c, ok := r.menu()
		if !ok {
			return nil
		}
		if err := r.runCase(ctx, s, c); err != nil {
			return err
		}
	}
}

func (r *Runner) runCase(ctx context.Context, s *Session, c Case) error {
	r.log.WithField("case", c.Name).Info("running test case")
	r.statusf("--- %s ---", c.Title)
	return c.run(r, ctx, s)
}

// menu asks for the next case by number or name.
func (r *Runner) menu() (Case, bool) {
	for {
		r.statusf("")
		for i, c := range registry {
			r.statusf("%2d) %-16s %s", i+1, c.Name, c.Title)
		}

		answer := r.prompt.Ask("Select a test by number or name, or '.' to finish: ")
		if done(answer) {
			return Case{}, false
		}
		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 1 && n <= len(registry) {
				return registry[n-1], true
			}
		} else if c, ok := lookupCase(answer); ok {
			return c, true
		}
		r.statusf("No such test: %s", answer)
	}
}
