package emby

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const itemFields = "Genres,MediaSources,DateCreated,Overview,ProductionYear,PremiereDate,Path"

// baseItem is the subset of Emby's BaseItemDto this package reads.
type baseItem struct {
	ID                string        `json:"Id"`
	Name              string        `json:"Name"`
	Type              string        `json:"Type"`
	CollectionType    string        `json:"CollectionType"`
	MediaType         string        `json:"MediaType"`
	Artists           []string      `json:"Artists"`
	Album             string        `json:"Album"`
	AlbumID           string        `json:"AlbumId"`
	AlbumArtist       string        `json:"AlbumArtist"`
	ParentIndexNumber int           `json:"ParentIndexNumber"`
	IndexNumber       int           `json:"IndexNumber"`
	DateCreated       string        `json:"DateCreated"`
	PremiereDate      string        `json:"PremiereDate"`
	ProductionYear    int           `json:"ProductionYear"`
	Genres            []string      `json:"Genres"`
	Overview          string        `json:"Overview"`
	Path              string        `json:"Path"`
	Bitrate           int           `json:"Bitrate"`
	RunTimeTicks      int64         `json:"RunTimeTicks"`
	PlaylistItemID    string        `json:"PlaylistItemId"`
	MediaSources      []mediaSource `json:"MediaSources"`
}

type mediaSource struct {
	MediaStreams []mediaStream `json:"MediaStreams"`
}

type mediaStream struct {
	IsTextSubtitleStream bool   `json:"IsTextSubtitleStream"`
	Title                string `json:"Title"`
	Extradata            string `json:"Extradata"`
}

// Item is a playable audio or video item.
type Item struct {
	Title          string   `json:"title"`
	Artists        []string `json:"artists"`
	Album          string   `json:"album"`
	AlbumID        string   `json:"album_id"`
	AlbumArtist    string   `json:"album_artist"`
	DiskNumber     int      `json:"disk_number,omitempty"`
	TrackNumber    int      `json:"track_number,omitempty"`
	CreationDate   string   `json:"creation_date"`
	PremiereDate   string   `json:"premiere_date"`
	ProductionYear int      `json:"production_year,omitempty"`
	Genres         []string `json:"genres"`
	Overview       string   `json:"overview"`
	Lyrics         string   `json:"lyrics,omitempty"`
	MediaType      string   `json:"media_type"`
	RunTime        string   `json:"run_time"`
	Bitrate        int      `json:"bitrate,omitempty"`
	ItemID         string   `json:"item_id"`
	FilePath       string   `json:"file_path,omitempty"`
}

// ItemList is one page of search results. TotalCount is the server's count
// before the lyrics filter is applied.
type ItemList struct {
	TotalCount int    `json:"total_count"`
	Items      []Item `json:"items"`
}

// ItemQuery narrows an item search. Fields are combined with AND; multiple
// Years widen the match. Zero values are left out of the request.
type ItemQuery struct {
	SearchTerm string
	Artist     string
	Genre      string
	Lyrics     string
	Years      []int
	FirstDate  string
	LastDate   string
	IsUnplayed bool
	IsPlayed   bool
	IsFavorite bool
	Limit      int
}

func (q ItemQuery) params() map[string]string {
	params := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			params[key] = value
		}
	}
	set("SearchTerm", q.SearchTerm)
	set("Artists", q.Artist)
	set("Genres", q.Genre)
	set("MinStartDate", q.FirstDate)
	set("MaxEndDate", q.LastDate)

	if len(q.Years) > 0 {
		years := make([]string, len(q.Years))
		for i, y := range q.Years {
			years[i] = strconv.Itoa(y)
		}
		params["Years"] = strings.Join(years, ",")
	}

	var filters []string
	if q.IsUnplayed {
		filters = append(filters, "IsUnplayed")
	}
	if q.IsPlayed {
		filters = append(filters, "IsPlayed")
	}
	if q.IsFavorite {
		filters = append(filters, "IsFavorite")
	}
	if len(filters) > 0 {
		params["Filters"] = strings.Join(filters, ",")
	}

	if q.Limit > 0 {
		params["Limit"] = strconv.Itoa(q.Limit)
	}
	return params
}

// Items searches a library for audio and video items. An empty libraryID
// searches every library. Lyrics are matched client side against the lyrics
// or overview of each result.
func (c *Client) Items(ctx context.Context, userID, libraryID string, q ItemQuery) (*ItemList, error) {
	if userID == "" {
		return nil, invalidf("No user_id was supplied.")
	}

	params := q.params()
	params["MediaTypes"] = "Audio,Video"
	params["Recursive"] = "true"
	params["Fields"] = itemFields
	if libraryID != "" {
		params["ParentId"] = libraryID
	}

	var resp baseItemList
	if err := c.get(ctx, "search items", fmt.Sprintf("/emby/Users/%s/Items", userID), params, &resp); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(resp.Items))
	for _, raw := range resp.Items {
		item := toItem(raw)
		if q.Lyrics != "" && !containsFolded(item.Lyrics, q.Lyrics) && !containsFolded(item.Overview, q.Lyrics) {
			continue
		}
		items = append(items, item)
	}

	return &ItemList{TotalCount: resp.TotalRecordCount, Items: items}, nil
}

func toItem(b baseItem) Item {
	artists := b.Artists
	if artists == nil {
		artists = []string{}
	}
	genres := b.Genres
	if genres == nil {
		genres = []string{}
	}
	return Item{
		Title:          b.Name,
		Artists:        artists,
		Album:          b.Album,
		AlbumID:        b.AlbumID,
		AlbumArtist:    b.AlbumArtist,
		DiskNumber:     b.ParentIndexNumber,
		TrackNumber:    b.IndexNumber,
		CreationDate:   b.DateCreated,
		PremiereDate:   b.PremiereDate,
		ProductionYear: b.ProductionYear,
		Genres:         genres,
		Overview:       b.Overview,
		Lyrics:         lyricsOf(b),
		MediaType:      b.MediaType,
		RunTime:        formatTicks(b.RunTimeTicks),
		Bitrate:        b.Bitrate,
		ItemID:         b.ID,
		FilePath:       b.Path,
	}
}

// lyricsOf returns the text of the first subtitle stream titled "lyrics" in
// the item's first media source.
func lyricsOf(b baseItem) string {
	if len(b.MediaSources) == 0 {
		return ""
	}
	for _, s := range b.MediaSources[0].MediaStreams {
		if s.IsTextSubtitleStream && strings.EqualFold(s.Title, "lyrics") {
			return s.Extradata
		}
	}
	return ""
}
