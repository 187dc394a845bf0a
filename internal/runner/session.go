package runner

import (
	"context"

	"embydebug/internal/config"
	"embydebug/internal/emby"
	"embydebug/internal/logger"
)

// MediaServer is the collaborator surface the test cases exercise.
// *emby.Client implements it.
type MediaServer interface {
	Login(ctx context.Context, username, password string) (*emby.AuthResult, error)
	Logout(ctx context.Context) error

	Libraries(ctx context.Context) ([]emby.Library, error)
	Genres(ctx context.Context, libraryID string) ([]string, error)
	Items(ctx context.Context, userID, libraryID string, q emby.ItemQuery) (*emby.ItemList, error)
	Users(ctx context.Context, q emby.UserQuery) ([]emby.User, error)

	Playlists(ctx context.Context, userID string, libs []emby.Library, playlistID string) ([]emby.Playlist, error)
	PlaylistItems(ctx context.Context, userID, playlistID string) (*emby.PlaylistContents, error)
	NewPlaylist(ctx context.Context, userID string, libs []emby.Library, name string, opts emby.PlaylistOptions) (string, error)
	AddPlaylistItems(ctx context.Context, userID, playlistID string, itemIDs []string) (int, error)
	DeletePlaylistItems(ctx context.Context, playlistID string, entryIDs []string) error
	MovePlaylistItem(ctx context.Context, playlistID, entryID string, newIndex int) error
	SetPlaylistSharing(ctx context.Context, playlistID string, shareType emby.ShareType, opts emby.ShareOptions) error
	SetPlaylistMeta(ctx context.Context, userID string, libs []emby.Library, playlistID string, meta emby.PlaylistMeta) error

	PlayerSessions(ctx context.Context, userID, mediaType string) ([]emby.PlayerSession, error)
	PlayQueue(ctx context.Context, sessionID string) ([]emby.QueueItem, error)
	SendPlayerCommand(ctx context.Context, sessionID string, cmd emby.PlayerCommand) error
}

var _ MediaServer = (*emby.Client)(nil)

// Dialer builds an unauthenticated MediaServer from the loaded config.
type Dialer func(cfg *config.Config, info emby.ClientInfo) MediaServer

// EmbyDialer returns a Dialer producing REST clients that log through log.
func EmbyDialer(log *logger.Logger) Dialer {
	return func(cfg *config.Config, info emby.ClientInfo) MediaServer {
		return emby.New(emby.Options{
			ServerURL:  cfg.Emby.ServerURL,
			Timeout:    cfg.Emby.RequestTimeout,
			LibraryTTL: cfg.Cache.LibraryTTL,
			Info:       info,
			Logger:     log,
		})
	}
}

// Session is the state carried between test cases. It lives for one run.
type Session struct {
	Server    MediaServer
	UserID    string
	Library   emby.Library
	Libraries []emby.Library
	Playlists []emby.Playlist
}
