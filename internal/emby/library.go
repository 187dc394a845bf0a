package emby

import (
	"context"
	"strings"

	"github.com/patrickmn/go-cache"
)

// Library is a top level media folder.
type Library struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

type baseItemList struct {
	Items            []baseItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
}

// Libraries lists the collection folders visible to the logged-in user.
// Results are cached until the library TTL expires or the session changes.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	if cached, ok := c.cache.Get(librariesCacheKey); ok {
		return cached.([]Library), nil
	}

	var resp baseItemList
	if err := c.get(ctx, "list libraries", "/emby/Library/MediaFolders", nil, &resp); err != nil {
		return nil, err
	}

	libs := make([]Library, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Type != "CollectionFolder" {
			continue
		}
		libs = append(libs, Library{Name: item.Name, Type: item.CollectionType, ID: item.ID})
	}

	c.cache.Set(librariesCacheKey, libs, cache.DefaultExpiration)
	return libs, nil
}

// SelectLibrary finds a library by name, ignoring case.
func SelectLibrary(libs []Library, name string) (Library, error) {
	if name == "" {
		return Library{}, invalidf("No library name was supplied.")
	}
	if len(libs) == 0 {
		return Library{}, notFoundf("No libraries are available.")
	}
	for _, lib := range libs {
		if strings.EqualFold(lib.Name, name) {
			return lib, nil
		}
	}
	return Library{}, notFoundf("Library not found: %s", name)
}

// playlistLibrary returns the first library holding playlists.
func playlistLibrary(libs []Library) (Library, error) {
	if len(libs) == 0 {
		return Library{}, notFoundf("No libraries are available.")
	}
	for _, lib := range libs {
		if lib.Type == "playlists" {
			return lib, nil
		}
	}
	return Library{}, notFoundf("No playlist libraries are available.")
}

type genreList struct {
	Items []struct {
		Name string `json:"Name"`
	} `json:"Items"`
}

// Genres lists genre names in a library, or across the server when
// libraryID is empty.
func (c *Client) Genres(ctx context.Context, libraryID string) ([]string, error) {
	params := map[string]string{"Recursive": "true"}
	if libraryID != "" {
		params["ParentId"] = libraryID
	}

	var resp genreList
	if err := c.get(ctx, "list genres", "/emby/Genres", params, &resp); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(resp.Items))
	for _, g := range resp.Items {
		genres = append(genres, g.Name)
	}
	return genres, nil
}
