// Package mast is the public SDK surface for the MAST client.
package mast

import (
	internal "github.com/duytnguyendtn/astroquery/internal/mast"
	"github.com/duytnguyendtn/astroquery/internal/models"
)

// Client is the user-facing MAST client facade.
type Client = internal.Client

// Option configures a Client during construction.
type Option = internal.Option

// SessionInfoOptions selects verbose or quiet session-info output.
type SessionInfoOptions = internal.SessionInfoOptions

// Coordinates is a resolved sky position in decimal degrees.
type Coordinates = models.Coordinates

// SessionInfo describes the MAST user behind the current session.
type SessionInfo = models.SessionInfo

// MashupRequest is a discovery-portal service request.
type MashupRequest = models.MashupRequest

// MashupResponse is the row envelope the portal answers with.
type MashupResponse = models.MashupResponse

// New opens a session against the MAST server and builds the client.
func New(opts ...Option) (*Client, error) {
	return internal.New(opts...)
}

// WithToken authenticates eagerly with the given token.
func WithToken(token string) Option {
	return internal.WithToken(token)
}

// Sentinel errors callers branch on.
var (
	ErrNotAuthenticated = internal.ErrNotAuthenticated
	ErrInvalidToken     = internal.ErrInvalidToken
	ErrResolutionFailed = internal.ErrResolutionFailed
	ErrCloudDisabled    = internal.ErrCloudDisabled
	ErrCloudUnavailable = internal.ErrCloudUnavailable
)
