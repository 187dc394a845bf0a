package emby

import (
	"context"
	"net/http"
	"testing"
)

func TestUsers(t *testing.T) {
	c, srv := loggedIn(t)
	srv.JSON(http.MethodGet, "/emby/Users/Public", http.StatusOK, []map[string]any{
		{"Id": "u1", "Name": "Zoë"},
		{"Id": "u2", "Name": "Mark"},
	})
	srv.JSON(http.MethodGet, "/emby/Users/:id", http.StatusOK, map[string]any{"Id": "u2", "Name": "Mark"})

	tests := []struct {
		name     string
		query    UserQuery
		wantIDs  []string
		wantPath string
	}{
		{"all", UserQuery{}, []string{"u1", "u2"}, "/emby/Users/Public"},
		{"by accentless name", UserQuery{UserName: "ZOE"}, []string{"u1"}, "/emby/Users/Public"},
		{"by id", UserQuery{UserID: "u2"}, []string{"u2"}, "/emby/Users/u2"},
		{"no match", UserQuery{UserName: "nobody"}, nil, "/emby/Users/Public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.Reset()
			users, err := c.Users(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Users() error = %v", err)
			}
			if users == nil {
				t.Fatal("Users() returned nil slice")
			}
			if len(users) != len(tt.wantIDs) {
				t.Fatalf("got %+v, want ids %v", users, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if users[i].UserID != id {
					t.Errorf("user %d = %+v, want id %s", i, users[i], id)
				}
			}
			if srv.Count(http.MethodGet, tt.wantPath) != 1 {
				t.Errorf("expected one request to %s, got %+v", tt.wantPath, srv.Requests())
			}
		})
	}
}
