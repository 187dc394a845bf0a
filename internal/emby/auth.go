package emby

import (
	"context"
	"fmt"
	"net/http"
)

// AuthResult is what Login reports back about the new session.
type AuthResult struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	ServerID    string `json:"server_id"`
	AccessToken string `json:"-"`
}

type authenticateRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authenticateResponse struct {
	AccessToken string `json:"AccessToken"`
	ServerID    string `json:"ServerId"`
	User        struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
}

// Login authenticates by user name and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var resp authenticateResponse

	c.userID = ""
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Emby-Authorization", c.authorizationHeader()).
		SetBody(authenticateRequest{Username: username, Pw: password}).
		SetResult(&resp)

	if _, err := c.execute(req, http.MethodPost, "/emby/Users/AuthenticateByName", "login"); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("login: server response carried no access token")
	}

	c.token = resp.AccessToken
	c.userID = resp.User.ID
	c.cache.Flush()

	c.log.WithField("user_id", c.userID).Debug("logged in to emby")

	return &AuthResult{
		UserID:      resp.User.ID,
		UserName:    resp.User.Name,
		ServerID:    resp.ServerID,
		AccessToken: resp.AccessToken,
	}, nil
}

// Logout revokes the access token. The client is unusable afterwards until
// the next Login.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "logout", "/emby/Sessions/Logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	c.userID = ""
	c.cache.Flush()
	return nil
}
