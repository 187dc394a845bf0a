package runner

import (
	"context"
	"strconv"
	"strings"

	"embydebug/internal/emby"
)

var seekCommands = map[string]bool{
	emby.CommandSeek:         true,
	emby.CommandRewind:       true,
	emby.CommandFastForward:  true,
	emby.CommandSeekRelative: true,
}

func (r *Runner) caseSessions(ctx context.Context, s *Session) error {
	for {
		mediaType := r.prompt.Ask("Enter optional media type to filter players (one of 'Audio', 'Video', 'Photo'). Leave blank for any type or '.' to skip: ")
		if mediaType == Sentinel {
			return nil
		}

		sessions, err := s.Server.PlayerSessions(ctx, s.UserID, mediaType)
		if err != nil {
			r.errorf("failed to retrieve sessions: %v", err)
			continue
		}
		r.statusf("Found %d player sessions", len(sessions))
		r.printJSON(sessions)
	}
}

func (r *Runner) casePlayQueue(ctx context.Context, s *Session) error {
	for {
		id := r.prompt.AskDefault("Enter the player session ID to retrieve its queue", r.cfg.Defaults.SessionID, " or '.' to skip")
		if done(id) {
			return nil
		}

		queue, err := s.Server.PlayQueue(ctx, id)
		if err != nil {
			r.errorf("failed to retrieve playqueue: %v", err)
			continue
		}
		r.statusf("Retrieved playqueue")
		r.printJSON(queue)
	}
}

func (r *Runner) casePlayerCommand(ctx context.Context, s *Session) error {
	commands := append([]string{emby.CommandPlayNow}, emby.PlaystateCommands...)
	commandLabel := "Enter the command to send (one of " + strings.Join(commands, ", ") + ")"

	defaultSeek := ""
	if r.cfg.Defaults.SeekMillis != 0 {
		defaultSeek = strconv.Itoa(r.cfg.Defaults.SeekMillis)
	}

	for {
		id := r.prompt.AskDefault("Enter the player session ID to send a command to", r.cfg.Defaults.SessionID, " or '.' to skip")
		if done(id) {
			return nil
		}
		command := r.prompt.AskDefault(commandLabel, r.cfg.Defaults.SessionCommand, " or '.' to skip")
		if done(command) {
			return nil
		}

		cmd := emby.PlayerCommand{Command: command, UserID: s.UserID}
		switch {
		case command == emby.CommandPlayNow:
			raw := r.prompt.AskDefault("Enter one or more item IDs to play as comma separated list", r.cfg.Defaults.SessionItemIDs, " or '.' to skip")
			if done(raw) {
				return nil
			}
			ids, err := ParseIDList(raw)
			if err != nil {
				r.errorf("%v", err)
				continue
			}
			cmd.ItemIDs = ids
		case seekCommands[command]:
			raw := r.prompt.AskDefault("Enter the seek amount in milliseconds", defaultSeek, " or '.' to skip")
			if done(raw) {
				return nil
			}
			ms, err := ParseMillis(raw)
			if err != nil {
				r.errorf("%v", err)
				continue
			}
			cmd.TimeMs = ms
		}

		if err := s.Server.SendPlayerCommand(ctx, id, cmd); err != nil {
			r.errorf("failed to instruct player session: %v", err)
			continue
		}
		r.statusf("Session '%s' executed '%s'", id, command)
	}
}
