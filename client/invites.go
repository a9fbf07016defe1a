package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// InviteDetails is the response of the invite validation endpoint.
type InviteDetails struct {
	Valid          bool   `json:"valid"`
	Email          string `json:"email"`
	DealershipName string `json:"dealershipName"`
}

// ValidateInvite checks an invite token from an emailed link. An invalid or
// expired token comes back with Valid=false, not an error.
func (c *Client) ValidateInvite(ctx context.Context, inviteToken string) (*InviteDetails, error) {
	q := url.Values{"token": {strings.TrimSpace(inviteToken)}}
	res, err := c.send(ctx, http.MethodGet, "/api/invites/validate", q, nil, false)
	if err != nil {
		return nil, err
	}
	var details InviteDetails
	if err := decodeBody(res, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

type acceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AcceptInvite sets the invited user's password. When the backend responds
// with a session (token plus role data) the store is populated the same way
// Login does and the result is returned; older backends return no session,
// in which case the result is nil and the user signs in afterwards.
func (c *Client) AcceptInvite(ctx context.Context, inviteToken, password string) (*LoginResult, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/invites/accept", nil, acceptInviteRequest{
		Token:    strings.TrimSpace(inviteToken),
		Password: password,
	}, false)
	if err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := decodeBody(res, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, nil
	}
	return c.establishSession(resp)
}
