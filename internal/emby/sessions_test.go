package emby

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"embydebug/internal/embytest"
)

func TestPlayerSessions(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodGet, "/emby/Sessions", http.StatusOK, []map[string]any{
		{
			"Id": "s1", "Client": "Emby Web", "DeviceName": "Laptop", "RemoteEndPoint": "127.0.0.1",
			"PlayableMediaTypes": []string{"Audio", "Video"},
			"NowPlayingItem":     map[string]any{"Id": "a1", "Name": "Song", "RunTimeTicks": int64(200) * ticksPerSecond},
			"PlayState":          map[string]any{"PositionTicks": int64(61) * ticksPerSecond, "IsPaused": true},
		},
		{"Id": "s2", "Client": "TV", "RemoteEndPoint": "10.0.0.8", "PlayableMediaTypes": []string{"Video"}},
		{"Id": "s3", "Client": "Scheduler"},
	})

	all, err := c.PlayerSessions(context.Background(), embytest.UserID, "")
	if err != nil {
		t.Fatalf("PlayerSessions() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d sessions, want 2", len(all))
	}

	s1 := all[0]
	if !s1.LocalToMediaServer || s1.NowPlayingTotalTime != "00:03:20" || s1.NowPlayingPosTime != "00:01:01" {
		t.Errorf("s1 = %+v", s1)
	}
	if s1.NowPlayingPosMillis == nil || *s1.NowPlayingPosMillis != 61000 {
		t.Errorf("position millis = %v", s1.NowPlayingPosMillis)
	}
	if s1.NowPlayingIsPaused == nil || !*s1.NowPlayingIsPaused {
		t.Error("paused flag not set")
	}
	if all[1].LocalToMediaServer {
		t.Error("remote session marked local")
	}

	req, _ := srv.Last(http.MethodGet, "/emby/Sessions")
	if req.Query.Get("ControllableByUserId") != embytest.UserID {
		t.Errorf("query = %v", req.Query)
	}

	audio, err := c.PlayerSessions(context.Background(), embytest.UserID, "audio")
	if err != nil {
		t.Fatalf("PlayerSessions(audio) error = %v", err)
	}
	if len(audio) != 1 || audio[0].SessionID != "s1" {
		t.Errorf("audio sessions = %+v", audio)
	}
}

func TestPlayQueue(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodGet, "/emby/Sessions/PlayQueue", http.StatusOK, map[string]any{
		"TotalRecordCount": 1,
		"Items":            []map[string]any{{"Id": "a1", "Name": "Song", "PlaylistItemId": "q7", "RunTimeTicks": int64(5) * ticksPerSecond}},
	})

	if _, err := c.PlayQueue(context.Background(), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty session error = %v", err)
	}

	queue, err := c.PlayQueue(context.Background(), "s1")
	if err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if len(queue) != 1 || queue[0].PlaylistItemID != "q7" || queue[0].RunTime != "00:00:05" {
		t.Errorf("queue = %+v", queue)
	}
	req, _ := srv.Last(http.MethodGet, "/emby/Sessions/PlayQueue")
	if req.Query.Get("Id") != "s1" {
		t.Errorf("query = %v", req.Query)
	}
}

func TestSendPlayerCommand(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodPost, "/emby/Sessions/:id/Playing", http.StatusNoContent, nil)
	srv.JSON(http.MethodPost, "/emby/Sessions/:id/Playing/:command", http.StatusNoContent, nil)
	ctx := context.Background()

	if err := c.SendPlayerCommand(ctx, "s1", PlayerCommand{Command: CommandPlayNow, ItemIDs: []string{"a1", "a2"}}); err != nil {
		t.Fatalf("PlayNow: %v", err)
	}
	play, _ := srv.Last(http.MethodPost, "/emby/Sessions/s1/Playing")
	if play.Query.Get("ItemIds") != "a1,a2" || play.Query.Get("PlayCommand") != "PlayNow" {
		t.Errorf("play query = %v", play.Query)
	}

	tests := []struct {
		name      string
		cmd       PlayerCommand
		wantPath  string
		wantBody  playstateRequest
		wantError error
	}{
		{
			name:     "rewind becomes negative seek",
			cmd:      PlayerCommand{Command: CommandRewind, UserID: "u"},
			wantPath: "/emby/Sessions/s1/Playing/SeekRelative",
			wantBody: playstateRequest{Command: "SeekRelative", SeekPositionTicks: -30000 * ticksPerMillisecond, ControllingUserID: "u"},
		},
		{
			name:     "fast forward with time",
			cmd:      PlayerCommand{Command: CommandFastForward, UserID: "u", TimeMs: 5000},
			wantPath: "/emby/Sessions/s1/Playing/SeekRelative",
			wantBody: playstateRequest{Command: "SeekRelative", SeekPositionTicks: 5000 * ticksPerMillisecond, ControllingUserID: "u"},
		},
		{
			name:     "seek keeps zero",
			cmd:      PlayerCommand{Command: CommandSeek, UserID: "u"},
			wantPath: "/emby/Sessions/s1/Playing/Seek",
			wantBody: playstateRequest{Command: "Seek", ControllingUserID: "u"},
		},
		{
			name:     "pause",
			cmd:      PlayerCommand{Command: CommandPause, UserID: "u"},
			wantPath: "/emby/Sessions/s1/Playing/Pause",
			wantBody: playstateRequest{Command: "Pause", ControllingUserID: "u"},
		},
		{
			name:      "playnow without items",
			cmd:       PlayerCommand{Command: CommandPlayNow},
			wantError: ErrInvalidArgument,
		},
		{
			name:      "missing user",
			cmd:       PlayerCommand{Command: CommandStop},
			wantError: ErrInvalidArgument,
		},
		{
			name:      "unknown command",
			cmd:       PlayerCommand{Command: "Dance", UserID: "u"},
			wantError: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.Reset()
			err := c.SendPlayerCommand(ctx, "s1", tt.cmd)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("error = %v, want %v", err, tt.wantError)
				}
				if len(srv.Requests()) != 0 {
					t.Fatal("request sent for rejected command")
				}
				return
			}
			if err != nil {
				t.Fatalf("SendPlayerCommand() error = %v", err)
			}
			req, ok := srv.Last(http.MethodPost, tt.wantPath)
			if !ok {
				t.Fatalf("no request to %s: %+v", tt.wantPath, srv.Requests())
			}
			var body playstateRequest
			decodeBody(t, req, &body)
			if body != tt.wantBody {
				t.Errorf("body = %+v, want %+v", body, tt.wantBody)
			}
		})
	}
}
