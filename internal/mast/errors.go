package mast

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation needs a logged-in
	// session and none is available.
	ErrNotAuthenticated = errors.New("no valid MAST session, login first")

	// ErrInvalidToken is returned when the server rejects a supplied token.
	ErrInvalidToken = errors.New("MAST token rejected by server")

	// ErrResolutionFailed is returned when the resolver cannot place an
	// object name on the sky.
	ErrResolutionFailed = errors.New("could not resolve object to a sky position")

	// ErrCloudDisabled is returned from cloud operations when no cloud
	// dataset access has been enabled.
	ErrCloudDisabled = errors.New("cloud data access is not enabled")

	// ErrCloudUnavailable is returned when a data product has no copy in
	// the public cloud bucket.
	ErrCloudUnavailable = errors.New("data product is not available in the cloud bucket")
)
