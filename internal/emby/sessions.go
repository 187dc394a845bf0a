package emby

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Player commands accepted by SendPlayerCommand.
const (
	CommandPlayNow       = "PlayNow"
	CommandStop          = "Stop"
	CommandPause         = "Pause"
	CommandUnpause       = "Unpause"
	CommandNextTrack     = "NextTrack"
	CommandPreviousTrack = "PreviousTrack"
	CommandSeek          = "Seek"
	CommandRewind        = "Rewind"
	CommandFastForward   = "FastForward"
	CommandPlayPause     = "PlayPause"
	CommandSeekRelative  = "SeekRelative"
)

// PlaystateCommands are the commands sent to Sessions/{id}/Playing/{command}.
var PlaystateCommands = []string{
	CommandStop, CommandPause, CommandUnpause, CommandNextTrack, CommandPreviousTrack,
	CommandSeek, CommandRewind, CommandFastForward, CommandPlayPause, CommandSeekRelative,
}

const defaultSeekMillis = 30000

// PlayerSession is an active client session that can play media.
type PlayerSession struct {
	ClientName         string   `json:"client_name"`
	SessionID          string   `json:"session_id"`
	DeviceID           string   `json:"device_id"`
	DeviceName         string   `json:"device_name"`
	DeviceIPAddress    string   `json:"device_ip_address"`
	LocalToMediaServer bool     `json:"local_to_media_server"`
	MediaTypes         []string `json:"media_types"`

	NowPlayingTitle       string   `json:"now_playing_title,omitempty"`
	NowPlayingArtists     []string `json:"now_playing_artists,omitempty"`
	NowPlayingAlbum       string   `json:"now_playing_album,omitempty"`
	NowPlayingTrackNumber int      `json:"now_playing_track_number,omitempty"`
	NowPlayingDiskNumber  int      `json:"now_playing_disk_number,omitempty"`
	NowPlayingItemID      string   `json:"now_playing_item_id,omitempty"`
	NowPlayingTotalMillis *int64   `json:"now_playing_total_milliseconds,omitempty"`
	NowPlayingTotalTime   string   `json:"now_playing_total_time,omitempty"`
	NowPlayingPosMillis   *int64   `json:"now_playing_position_milliseconds,omitempty"`
	NowPlayingPosTime     string   `json:"now_playing_position_time,omitempty"`
	NowPlayingIsPaused    *bool    `json:"now_playing_is_paused,omitempty"`
}

type sessionDto struct {
	ID                 string    `json:"Id"`
	Client             string    `json:"Client"`
	DeviceID           string    `json:"DeviceId"`
	DeviceName         string    `json:"DeviceName"`
	RemoteEndPoint     string    `json:"RemoteEndPoint"`
	PlayableMediaTypes []string  `json:"PlayableMediaTypes"`
	NowPlayingItem     *baseItem `json:"NowPlayingItem"`
	PlayState          *struct {
		PositionTicks *int64 `json:"PositionTicks"`
		IsPaused      bool   `json:"IsPaused"`
	} `json:"PlayState"`
}

// PlayerSessions lists sessions that can play media and that userID may
// control. A non-empty mediaType keeps only sessions able to play it.
func (c *Client) PlayerSessions(ctx context.Context, userID, mediaType string) ([]PlayerSession, error) {
	params := map[string]string{}
	if userID != "" {
		params["ControllableByUserId"] = userID
	}

	var resp []sessionDto
	if err := c.get(ctx, "list sessions", "/emby/Sessions", params, &resp); err != nil {
		return nil, err
	}

	sessions := make([]PlayerSession, 0, len(resp))
	for _, s := range resp {
		if len(s.PlayableMediaTypes) == 0 {
			continue
		}
		if mediaType != "" && !hasFold(s.PlayableMediaTypes, mediaType) {
			continue
		}
		sessions = append(sessions, toPlayerSession(s))
	}
	return sessions, nil
}

func toPlayerSession(s sessionDto) PlayerSession {
	ps := PlayerSession{
		ClientName:         s.Client,
		SessionID:          s.ID,
		DeviceID:           s.DeviceID,
		DeviceName:         s.DeviceName,
		DeviceIPAddress:    s.RemoteEndPoint,
		LocalToMediaServer: isLoopback(s.RemoteEndPoint),
		MediaTypes:         s.PlayableMediaTypes,
	}

	if np := s.NowPlayingItem; np != nil {
		total := ticksToMillis(np.RunTimeTicks)
		ps.NowPlayingTitle = np.Name
		ps.NowPlayingArtists = np.Artists
		ps.NowPlayingAlbum = np.Album
		ps.NowPlayingTrackNumber = np.IndexNumber
		ps.NowPlayingDiskNumber = np.ParentIndexNumber
		ps.NowPlayingItemID = np.ID
		ps.NowPlayingTotalMillis = &total
		ps.NowPlayingTotalTime = formatSeconds(total / 1000)
	}
	if st := s.PlayState; st != nil {
		if st.PositionTicks != nil {
			pos := ticksToMillis(*st.PositionTicks)
			ps.NowPlayingPosMillis = &pos
			ps.NowPlayingPosTime = formatSeconds(pos / 1000)
		}
		paused := st.IsPaused
		ps.NowPlayingIsPaused = &paused
	}
	return ps
}

func hasFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// QueueItem is an entry in a session's play queue.
type QueueItem struct {
	Item
	PlaylistItemID string `json:"playlist_item_id"`
}

// PlayQueue returns the play queue of a session.
func (c *Client) PlayQueue(ctx context.Context, sessionID string) ([]QueueItem, error) {
	if sessionID == "" {
		return nil, invalidf("The 'session_id' parameter cannot be empty.")
	}

	var resp baseItemList
	if err := c.get(ctx, "get play queue", "/emby/Sessions/PlayQueue", map[string]string{"Id": sessionID}, &resp); err != nil {
		return nil, err
	}

	queue := make([]QueueItem, 0, len(resp.Items))
	for _, raw := range resp.Items {
		item := toItem(raw)
		item.Lyrics = ""
		item.FilePath = ""
		queue = append(queue, QueueItem{Item: item, PlaylistItemID: raw.PlaylistItemID})
	}
	return queue, nil
}

// PlayerCommand is one instruction for a player session. ItemIDs is required
// for PlayNow; UserID for every other command. TimeMs is the seek position or
// offset in milliseconds.
type PlayerCommand struct {
	Command string
	ItemIDs []string
	UserID  string
	TimeMs  int
}

type playstateRequest struct {
	Command           string `json:"Command"`
	SeekPositionTicks int64  `json:"SeekPositionTicks"`
	ControllingUserID string `json:"ControllingUserId"`
}

// SendPlayerCommand sends cmd to a session. Rewind and FastForward are sent
// as SeekRelative since several players ignore the native commands.
func (c *Client) SendPlayerCommand(ctx context.Context, sessionID string, cmd PlayerCommand) error {
	if sessionID == "" {
		return invalidf("The 'session_id' parameter cannot be empty.")
	}

	if cmd.Command == CommandPlayNow {
		if len(cmd.ItemIDs) == 0 {
			return invalidf("The 'item_ids' parameter is required for the 'PlayNow' command.")
		}
		params := map[string]string{
			"ItemIds":     strings.Join(cmd.ItemIDs, ","),
			"PlayCommand": CommandPlayNow,
		}
		return c.post(ctx, "play now", fmt.Sprintf("/emby/Sessions/%s/Playing", sessionID), params, nil, nil)
	}

	if !slices.Contains(PlaystateCommands, cmd.Command) {
		return invalidf("Unsupported command: %s. Valid commands are 'PlayNow', '%s'",
			cmd.Command, strings.Join(PlaystateCommands, "', '"))
	}
	if cmd.UserID == "" {
		return invalidf("No user_id was supplied.")
	}

	ms := int64(cmd.TimeMs)
	if ms == 0 && (cmd.Command == CommandRewind || cmd.Command == CommandFastForward || cmd.Command == CommandSeekRelative) {
		ms = defaultSeekMillis
	}
	ticks := ms * ticksPerMillisecond

	command := cmd.Command
	switch command {
	case CommandRewind:
		command = CommandSeekRelative
		ticks = -ticks
	case CommandFastForward:
		command = CommandSeekRelative
	}

	body := playstateRequest{Command: command, SeekPositionTicks: ticks, ControllingUserID: cmd.UserID}
	return c.post(ctx, "player command", fmt.Sprintf("/emby/Sessions/%s/Playing/%s", sessionID, command), nil, body, nil)
}
