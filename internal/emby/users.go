package emby

import (
	"context"
	"fmt"
)

// User is a server account.
type User struct {
	UserName string `json:"user_name"`
	UserID   string `json:"user_id"`
}

// UserQuery selects users. UserID looks up one account directly; UserName
// filters ignoring case and accents.
type UserQuery struct {
	UserID   string
	UserName string
}

type userDto struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Users lists visible users, optionally narrowed by q.
func (c *Client) Users(ctx context.Context, q UserQuery) ([]User, error) {
	var found []userDto
	if q.UserID != "" {
		var one userDto
		if err := c.get(ctx, "get user", fmt.Sprintf("/emby/Users/%s", q.UserID), nil, &one); err != nil {
			return nil, err
		}
		found = []userDto{one}
	} else if err := c.get(ctx, "list users", "/emby/Users/Public", nil, &found); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(found))
	for _, u := range found {
		if q.UserName != "" && !equalFolded(u.Name, q.UserName) {
			continue
		}
		users = append(users, User{UserName: u.Name, UserID: u.ID})
	}
	return users, nil
}
