package runner

import (
	"context"
	"strings"

	"embydebug/internal/emby"
)

func (r *Runner) casePlaylists(ctx context.Context, s *Session) error {
	playlists, err := s.Server.Playlists(ctx, s.UserID, s.Libraries, "")
	if err != nil {
		r.errorf("failed to retrieve list of playlists: %v", err)
		return err
	}
	s.Playlists = playlists
	r.statusf("Found %d playlists", len(playlists))
	r.printJSON(playlists)
	return nil
}

// askPlaylistID asks for a playlist id, offering the configured default.
func (r *Runner) askPlaylistID(label string) (string, bool) {
	id := r.prompt.AskDefault(label, r.cfg.Defaults.PlaylistID, ", or '.' to skip")
	return id, !done(id)
}

func (r *Runner) casePlaylistItems(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter playlist_id to retrieve its item list")
		if !ok {
			return nil
		}

		r.statusf("Selecting playlist_id: %s", id)
		contents, err := s.Server.PlaylistItems(ctx, s.UserID, id)
		if err != nil {
			r.errorf("failed to retrieve playlist item list: %v", err)
			continue
		}
		r.statusf("Playlist contains (%d items)", contents.TotalCount)
		r.printJSON(contents.Items)
	}
}

func (r *Runner) casePlaylistCreate(ctx context.Context, s *Session) error {
	for {
		name := r.prompt.AskDefault("Enter name of playlist to create", r.cfg.Defaults.PlaylistName, ", or '.' to skip")
		if done(name) {
			return nil
		}
		overview := r.prompt.Ask("Enter overview of new playlist, or leave blank for none: ")
		if overview == Sentinel {
			return nil
		}

		id, err := s.Server.NewPlaylist(ctx, s.UserID, s.Libraries, name, emby.PlaylistOptions{Overview: overview})
		if err != nil {
			r.errorf("failed to create new playlist: %v", err)
			continue
		}
		r.statusf("Playlist successfully created with playlist_id (%s)", id)
	}
}

func (r *Runner) casePlaylistAdd(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter playlist ID to add to")
		if !ok {
			return nil
		}
		raw := r.prompt.AskDefault("Enter one or more item IDs to add as a comma separated list", r.cfg.Defaults.PlaylistItemIDs, "")
		if done(raw) {
			return nil
		}
		itemIDs, err := ParseIDList(raw)
		if err != nil {
			r.errorf("%v", err)
			continue
		}

		count, err := s.Server.AddPlaylistItems(ctx, s.UserID, id, itemIDs)
		if err != nil {
			r.errorf("failed to add items to playlist: %v", err)
			continue
		}
		r.statusf("Added items to playlist: %d", count)
	}
}

func (r *Runner) casePlaylistRemove(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter playlist ID to delete from")
		if !ok {
			return nil
		}
		raw := r.prompt.Ask("Enter one or more playlist item NUMBERS to remove as a comma separated list: ")
		if done(raw) {
			return nil
		}
		entries, err := ParseIDList(raw)
		if err != nil {
			r.errorf("%v", err)
			continue
		}

		if err := s.Server.DeletePlaylistItems(ctx, id, entries); err != nil {
			r.errorf("failed to remove items from playlist: %v", err)
			continue
		}
		r.statusf("Removed items from playlist")
	}
}

func (r *Runner) casePlaylistMove(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter playlist ID to move items within")
		if !ok {
			return nil
		}
		entry := r.prompt.Ask("Enter a playlist item NUMBER to move (singular): ")
		if done(entry) {
			return nil
		}
		rawIndex := r.prompt.Ask("Enter the playlist INDEX/position to move item to (zero-based): ")
		if done(rawIndex) {
			return nil
		}
		index, err := ParseIndex(rawIndex)
		if err != nil {
			r.errorf("%v", err)
			continue
		}

		if err := s.Server.MovePlaylistItem(ctx, id, entry, index); err != nil {
			r.errorf("failed to move playlist item: %v", err)
			continue
		}
		r.statusf("Moved item")
	}
}

func (r *Runner) casePlaylistShare(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter playlist ID to share")
		if !ok {
			return nil
		}
		shareType := r.prompt.Ask("Enter the share type (one of 'Public', 'Private', 'Shared'): ")
		if done(shareType) {
			return nil
		}

		var opts emby.ShareOptions
		if strings.EqualFold(shareType, string(emby.ShareShared)) {
			users := r.prompt.AskDefault("Enter user IDs to share with as a comma separated list", r.cfg.Defaults.UserIDs, "")
			if users == Sentinel {
				return nil
			}
			access := r.prompt.AskDefault("Enter access level for these users (One of 'None', 'Read', 'Write', 'Manage', 'ManageDelete')", r.cfg.Defaults.AccessLevel, "")
			if access == Sentinel {
				return nil
			}
			if users != "" {
				ids, err := ParseIDList(users)
				if err != nil {
					r.errorf("%v", err)
					continue
				}
				opts.UserIDs = ids
			}
			opts.ItemAccess = access
		}

		r.statusf("Sharing playlist %s as %s", id, shareType)
		if err := s.Server.SetPlaylistSharing(ctx, id, emby.ShareType(shareType), opts); err != nil {
			r.errorf("failed to change playlist sharing: %v", err)
			continue
		}
		r.statusf("Changed playlist sharing to %s", shareType)
	}
}

func (r *Runner) casePlaylistMeta(ctx context.Context, s *Session) error {
	for {
		id, ok := r.askPlaylistID("Enter ID of playlist to change")
		if !ok {
			return nil
		}
		name := r.prompt.Ask("Enter optional new name for playlist, or leave blank for no change: ")
		if name == Sentinel {
			return nil
		}
		overview := r.prompt.Ask("Enter optional overview for playlist, or leave blank for no change: ")
		if overview == Sentinel {
			return nil
		}

		meta := emby.PlaylistMeta{Name: name, Overview: overview}
		if err := s.Server.SetPlaylistMeta(ctx, s.UserID, s.Libraries, id, meta); err != nil {
			r.errorf("failed to change playlist details: %v", err)
			continue
		}
		r.statusf("Changed playlist details")
	}
}
