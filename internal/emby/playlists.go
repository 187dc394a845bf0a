package emby

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const playlistFields = "Genres,MediaSources,DateCreated,Overview,ProductionYear,PremiereDate,ParentId"

// UserAccess is one user's share level on an item.
type UserAccess struct {
	UserName    string `json:"user_name"`
	UserID      string `json:"user_id"`
	AccessLevel string `json:"access_level"`
}

// Playlist describes a playlist in the playlists library.
type Playlist struct {
	Name        string       `json:"name"`
	Overview    string       `json:"overview"`
	Genres      []string     `json:"genres"`
	DateCreated string       `json:"date_created"`
	RunTime     string       `json:"run_time"`
	CanShare    bool         `json:"can_share"`
	UserAccess  []UserAccess `json:"user_access"`
	MediaType   string       `json:"media_type"`
	PlaylistID  string       `json:"playlist_id"`
}

// PlaylistEntry is an item on a playlist. PlaylistItemNumber identifies the
// entry within that playlist only and is what delete and move operate on.
type PlaylistEntry struct {
	Item
	PlaylistItemNumber string `json:"playlist_item_number"`
	PlaylistItemIndex  int    `json:"playlist_item_index"`
}

// PlaylistContents is the ordered content of one playlist.
type PlaylistContents struct {
	TotalCount int             `json:"total_count"`
	Items      []PlaylistEntry `json:"items"`
}

// PlaylistOptions are the optional settings for NewPlaylist.
type PlaylistOptions struct {
	MediaType string
	Overview  string
}

// PlaylistMeta holds the fields SetPlaylistMeta may change. Empty fields
// are left alone.
type PlaylistMeta struct {
	Name     string
	Overview string
}

// ShareType selects how a playlist is shared.
type ShareType string

const (
	SharePublic  ShareType = "Public"
	SharePrivate ShareType = "Private"
	ShareShared  ShareType = "Shared"
)

// ShareOptions are required when sharing with specific users.
type ShareOptions struct {
	UserIDs    []string
	ItemAccess string
}

type itemAccessList struct {
	Items []struct {
		ID                 string `json:"Id"`
		Name               string `json:"Name"`
		UserItemShareLevel string `json:"UserItemShareLevel"`
	} `json:"Items"`
	TotalRecordCount int `json:"TotalRecordCount"`
}

// Playlists lists the playlists in the first playlists library, or only
// playlistID when it is set. Per-user access is filled in where the server
// allows it; access lookup failures are skipped.
func (c *Client) Playlists(ctx context.Context, userID string, libs []Library, playlistID string) ([]Playlist, error) {
	lib, err := playlistLibrary(libs)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"ParentId":  lib.ID,
		"Recursive": "true",
		"Fields":    playlistFields,
	}
	if playlistID != "" {
		params["Ids"] = playlistID
	}

	var resp baseItemList
	if err := c.get(ctx, "list playlists", fmt.Sprintf("/emby/Users/%s/Items", userID), params, &resp); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(resp.Items))
	for _, item := range resp.Items {
		if !strings.EqualFold(item.Type, "playlist") {
			continue
		}
		genres := item.Genres
		if genres == nil {
			genres = []string{}
		}
		p := Playlist{
			Name:        item.Name,
			Overview:    item.Overview,
			Genres:      genres,
			DateCreated: item.DateCreated,
			RunTime:     formatTicks(item.RunTimeTicks),
			UserAccess:  []UserAccess{},
			MediaType:   item.MediaType,
			PlaylistID:  item.ID,
		}

		access, err := c.itemAccess(ctx, item.ID)
		if err != nil {
			c.log.WithError(err).WithField("playlist_id", item.ID).Debug("skipping playlist access lookup")
		} else {
			p.UserAccess = access
			for _, a := range access {
				if a.UserID == userID && (a.AccessLevel == "Manage" || a.AccessLevel == "ManageDelete") {
					p.CanShare = true
				}
			}
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

func (c *Client) itemAccess(ctx context.Context, itemID string) ([]UserAccess, error) {
	var resp itemAccessList
	if err := c.get(ctx, "item access", "/emby/Users/ItemAccess", map[string]string{"ItemId": itemID}, &resp); err != nil {
		return nil, err
	}
	access := make([]UserAccess, 0, len(resp.Items))
	for _, u := range resp.Items {
		access = append(access, UserAccess{UserName: u.Name, UserID: u.ID, AccessLevel: u.UserItemShareLevel})
	}
	return access, nil
}

// PlaylistItems lists the audio and video entries of a playlist in order.
func (c *Client) PlaylistItems(ctx context.Context, userID, playlistID string) (*PlaylistContents, error) {
	if playlistID == "" {
		return nil, invalidf("The 'playlist_id' parameter cannot be empty.")
	}

	params := map[string]string{
		"UserId": userID,
		"Fields": "Genres,MediaSources,DateCreated,Overview",
	}
	var resp baseItemList
	if err := c.get(ctx, "list playlist items", fmt.Sprintf("/emby/Playlists/%s/Items", playlistID), params, &resp); err != nil {
		return nil, err
	}

	entries := make([]PlaylistEntry, 0, len(resp.Items))
	for _, raw := range resp.Items {
		if !strings.EqualFold(raw.MediaType, "audio") && !strings.EqualFold(raw.MediaType, "video") {
			continue
		}
		entries = append(entries, PlaylistEntry{
			Item:               toItem(raw),
			PlaylistItemNumber: raw.PlaylistItemID,
			PlaylistItemIndex:  len(entries),
		})
	}
	return &PlaylistContents{TotalCount: resp.TotalRecordCount, Items: entries}, nil
}

// NewPlaylist creates an empty playlist and returns its id. Names must be
// unique ignoring case. MediaType defaults to Audio.
func (c *Client) NewPlaylist(ctx context.Context, userID string, libs []Library, name string, opts PlaylistOptions) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", invalidf("Playlist name cannot be empty.")
	}
	if err := c.checkPlaylistName(ctx, userID, libs, name, ""); err != nil {
		return "", err
	}

	mediaType := opts.MediaType
	if mediaType == "" {
		mediaType = "Audio"
	}

	var created struct {
		ID string `json:"Id"`
	}
	params := map[string]string{"Name": name, "MediaType": mediaType}
	if err := c.post(ctx, "create playlist", "/emby/Playlists", params, nil, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("create playlist: server returned no playlist id")
	}

	if opts.Overview != "" {
		err := c.updateItem(ctx, userID, created.ID, func(dto map[string]any) {
			dto["Overview"] = opts.Overview
		})
		if err != nil {
			return "", err
		}
	}
	return created.ID, nil
}

// SetPlaylistMeta renames a playlist or changes its overview.
func (c *Client) SetPlaylistMeta(ctx context.Context, userID string, libs []Library, playlistID string, meta PlaylistMeta) error {
	if meta.Name == "" && meta.Overview == "" {
		return invalidf("No changes specified. Please provide at least one of: name, overview.")
	}
	if meta.Name != "" {
		if err := c.checkPlaylistName(ctx, userID, libs, meta.Name, playlistID); err != nil {
			return err
		}
	}

	return c.updateItem(ctx, userID, playlistID, func(dto map[string]any) {
		if meta.Name != "" {
			dto["Name"] = meta.Name
		}
		if meta.Overview != "" {
			dto["Overview"] = meta.Overview
		}
	})
}

// checkPlaylistName rejects a name already used by a playlist other than
// exceptID. A failed listing does not block the change.
func (c *Client) checkPlaylistName(ctx context.Context, userID string, libs []Library, name, exceptID string) error {
	existing, err := c.Playlists(ctx, userID, libs, "")
	if err != nil {
		c.log.WithError(err).Debug("skipping playlist name check")
		return nil
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) && p.PlaylistID != exceptID {
			return conflictf("Playlist with name %q already exists.", name)
		}
	}
	return nil
}

// updateItem fetches an item's full DTO, applies change and posts it back.
func (c *Client) updateItem(ctx context.Context, userID, itemID string, change func(map[string]any)) error {
	var dto map[string]any
	if err := c.get(ctx, "get item", fmt.Sprintf("/emby/Users/%s/Items/%s", userID, itemID), nil, &dto); err != nil {
		return err
	}
	if dto == nil {
		return notFoundf("Playlist with ID %s not found.", itemID)
	}
	change(dto)
	return c.post(ctx, "update item", fmt.Sprintf("/emby/Items/%s", itemID), nil, dto, nil)
}

// AddPlaylistItems appends items to a playlist and returns how many the
// server added.
func (c *Client) AddPlaylistItems(ctx context.Context, userID, playlistID string, itemIDs []string) (int, error) {
	if playlistID == "" {
		return 0, invalidf("The 'playlist_id' parameter cannot be empty.")
	}
	if len(itemIDs) == 0 {
		return 0, invalidf("The 'item_ids' parameter cannot be empty.")
	}

	var resp struct {
		ItemAddedCount int `json:"ItemAddedCount"`
	}
	params := map[string]string{"Ids": strings.Join(itemIDs, ","), "UserId": userID}
	if err := c.post(ctx, "add playlist items", fmt.Sprintf("/emby/Playlists/%s/Items", playlistID), params, nil, &resp); err != nil {
		return 0, err
	}
	if resp.ItemAddedCount <= 0 {
		return 0, fmt.Errorf("add playlist items: server added no items")
	}
	return resp.ItemAddedCount, nil
}

// DeletePlaylistItems removes entries by playlist item number, not item id.
func (c *Client) DeletePlaylistItems(ctx context.Context, playlistID string, entryIDs []string) error {
	if playlistID == "" {
		return invalidf("The 'playlist_id' parameter cannot be empty.")
	}
	if len(entryIDs) == 0 {
		return invalidf("The 'playlist_item_number' parameter cannot be empty.")
	}
	params := map[string]string{"EntryIds": strings.Join(entryIDs, ",")}
	return c.post(ctx, "delete playlist items", fmt.Sprintf("/emby/Playlists/%s/Items/Delete", playlistID), params, nil, nil)
}

// MovePlaylistItem moves one entry to a zero-based position.
func (c *Client) MovePlaylistItem(ctx context.Context, playlistID, entryID string, newIndex int) error {
	if playlistID == "" || entryID == "" {
		return invalidf("The 'playlist_id' and 'playlist_item_number' parameters cannot be empty.")
	}
	if newIndex < 0 {
		return invalidf("Invalid playlist index: %d", newIndex)
	}
	path := fmt.Sprintf("/emby/Playlists/%s/Items/%s/Move/%s", playlistID, entryID, strconv.Itoa(newIndex))
	return c.post(ctx, "move playlist item", path, nil, nil, nil)
}

type itemAccessUpdate struct {
	ItemIDs    []string `json:"ItemIds"`
	UserIDs    []string `json:"UserIds"`
	ItemAccess string   `json:"ItemAccess"`
}

// SetPlaylistSharing makes a playlist public, private, or shared with the
// given users at one access level.
func (c *Client) SetPlaylistSharing(ctx context.Context, playlistID string, shareType ShareType, opts ShareOptions) error {
	if playlistID == "" {
		return invalidf("The 'playlist_id' parameter cannot be empty.")
	}

	switch {
	case strings.EqualFold(string(shareType), string(SharePublic)):
		return c.post(ctx, "make public", fmt.Sprintf("/emby/Items/%s/MakePublic", playlistID), nil, nil, nil)
	case strings.EqualFold(string(shareType), string(SharePrivate)):
		return c.post(ctx, "make private", fmt.Sprintf("/emby/Items/%s/MakePrivate", playlistID), nil, nil, nil)
	case strings.EqualFold(string(shareType), string(ShareShared)):
		if len(opts.UserIDs) == 0 || opts.ItemAccess == "" {
			return invalidf("Share_type %s requires parameters 'user_ids' and 'item_access'", shareType)
		}
		body := itemAccessUpdate{ItemIDs: []string{playlistID}, UserIDs: opts.UserIDs, ItemAccess: opts.ItemAccess}
		return c.post(ctx, "share item", "/emby/Items/Access", nil, body, nil)
	default:
		return invalidf("Invalid share_type: %s. Must be one of: Public, Private, Shared.", shareType)
	}
}
