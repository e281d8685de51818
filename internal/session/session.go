// Package session models the admin login flow: a gate that holds no
// credential, tries it once against the stats endpoint, and on success hands
// back the working set as an explicit value object.
package session

import (
	"context"
	"errors"
	"fmt"

	"greenpledge/internal/client"
	"greenpledge/internal/model"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authorized
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authorized:
		return "authorized"
	default:
		return "anonymous"
	}
}

// AuthorizedSession carries the record collection loaded at login. Table,
// chart and CSV operations take this value; nothing reads it ambiently.
type AuthorizedSession struct {
	WorkingSet []model.Pledge
}

type Gate struct {
	api   *client.Client
	state State
}

func NewGate(api *client.Client) *Gate {
	return &Gate{api: api, state: Anonymous}
}

func (g *Gate) State() State {
	return g.state
}

// Authenticate sends the candidate credential once. A rejected credential or
// a transport failure drops the gate back to Anonymous; the credential itself
// is never stored, so re-entry always means re-authentication.
func (g *Gate) Authenticate(ctx context.Context, credential string) (*AuthorizedSession, error) {
	g.state = Authenticating

	stats, err := g.api.AdminStats(ctx, credential)
	if err != nil {
		g.state = Anonymous
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, fmt.Errorf("admin credential rejected: %w", err)
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	g.state = Authorized
	return &AuthorizedSession{WorkingSet: stats.Pledges}, nil
}
