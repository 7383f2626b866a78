package mast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/duytnguyendtn/astroquery/internal/config"
	"github.com/duytnguyendtn/astroquery/internal/deprecate"
	"github.com/duytnguyendtn/astroquery/internal/models"
	"github.com/duytnguyendtn/astroquery/internal/tokens"
)

// Delegate interfaces. The client only ever forwards to these; concrete
// implementations live beside it and fakes stand in during tests.
type (
	// PortalQuerier runs Mashup requests against the discovery portal.
	PortalQuerier interface {
		ServiceRequest(ctx context.Context, req *models.MashupRequest) (*models.MashupResponse, error)
		Invoke(ctx context.Context, req *models.MashupRequest, out any) error
	}

	// ServiceQuerier runs requests against the versioned service API.
	ServiceQuerier interface {
		ServiceRequest(ctx context.Context, service string, params map[string]string) ([]map[string]any, error)
	}

	// Authenticator owns login state and the session-info lookup.
	Authenticator interface {
		Login(ctx context.Context, token string, storeToken bool, reenterToken bool) error
		Logout(ctx context.Context) error
		SessionInfo(ctx context.Context, verbose bool) (models.SessionInfo, error)
		IsAuthenticated() bool
	}

	// CloudProvider redirects public downloads to cloud storage.
	CloudProvider interface {
		CloudURI(ctx context.Context, dataURI string) (string, error)
		Download(ctx context.Context, dataURI string, localPath string) error
	}

	// ObjectResolver maps object names to sky positions.
	ObjectResolver interface {
		Resolve(ctx context.Context, objectName string) (models.Coordinates, error)
	}
)

// CloudFactory builds a cloud delegate on demand.
type CloudFactory func(ctx context.Context, provider string, profile string, verbose bool) (CloudProvider, error)

// Client is the user-facing MAST client. It owns one network session,
// shares it with the portal, service and auth connections, and forwards
// every operation to the matching delegate. Not safe for concurrent
// use; callers wanting parallel queries open one client per goroutine.
type Client struct {
	cfg     *config.Config
	session *Session

	portal   PortalQuerier
	services ServiceQuerier
	auth     Authenticator
	resolver ObjectResolver

	cloud        CloudProvider
	cloudFactory CloudFactory

	authenticated bool
	eagerToken    string
}

// Option configures a Client during construction.
type Option func(*Client)

// WithToken authenticates eagerly with the given token.
func WithToken(token string) Option {
	return func(c *Client) { c.eagerToken = token }
}

// WithConfig substitutes the resolved configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *Client) { c.cfg = cfg }
}

// WithAuthenticator substitutes the auth delegate.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) { c.auth = auth }
}

// WithPortal substitutes the portal connection.
func WithPortal(portal PortalQuerier) Option {
	return func(c *Client) { c.portal = portal }
}

// WithServices substitutes the service API connection.
func WithServices(services ServiceQuerier) Option {
	return func(c *Client) { c.services = services }
}

// WithResolver substitutes the object resolver.
func WithResolver(resolver ObjectResolver) Option {
	return func(c *Client) { c.resolver = resolver }
}

// WithCloudFactory substitutes how cloud delegates are built.
func WithCloudFactory(factory CloudFactory) Option {
	return func(c *Client) { c.cloudFactory = factory }
}

// New opens a session against the configured MAST server and wires up
// the delegate connections. Supplying a token authenticates eagerly;
// without one the client starts anonymous.
func New(opts ...Option) (*Client, error) {

	client := &Client{}

	for _, opt := range opts {
		opt(client)
	}

	if client.cfg == nil {
		client.cfg = config.DefaultConfig()
	}

	if client.session == nil {
		client.session = NewSession(client.cfg.Server.Endpoint, client.cfg.Server.Timeout)
	}

	portal := NewPortalAPI(client.session)
	if client.portal == nil {
		client.portal = portal
	}
	if client.services == nil {
		client.services = NewServiceAPI(client.session)
	}
	if client.resolver == nil {
		client.resolver = NewResolver(portal, client.cfg.Server.Resolver)
	}

	if client.auth == nil {
		store, err := tokens.NewStore()
		if err != nil {
			logrus.WithError(err).Warnln("Token store unavailable, tokens will not persist")
		}
		client.auth = NewMastAuth(client.session, store)
	}

	if client.cloudFactory == nil {
		client.cloudFactory = func(ctx context.Context, provider string, profile string, verbose bool) (CloudProvider, error) {
			return NewCloudAccess(ctx, provider, profile,
				client.cfg.Cloud.Bucket, client.cfg.Cloud.Region, verbose)
		}
	}

	// A token from the config file or $MAST_API_TOKEN authenticates
	// eagerly too; an explicit WithToken wins over both.
	if len(client.eagerToken) == 0 {
		client.eagerToken = client.cfg.Server.Token
	}

	if len(client.eagerToken) > 0 {
		if err := client.auth.Login(context.Background(), client.eagerToken, false, false); err != nil {
			return nil, fmt.Errorf("eager login failed: %w", err)
		}
		client.authenticated = true
		client.eagerToken = ""
	}

	return client, nil
}

// Login logs into the MAST portal. The token can be generated at the
// MAST auth site; when empty the delegate falls back to $MAST_API_TOKEN,
// the token store, and finally a prompt.
func (c *Client) Login(ctx context.Context, token string, storeToken bool, reenterToken bool) error {
	err := c.auth.Login(ctx, token, storeToken, reenterToken)
	c.authenticated = c.auth.IsAuthenticated()
	return err
}

// SessionInfoOptions selects verbose or quiet session-info output.
// Silent is the deprecated spelling; when both are set Verbose wins.
// Pointer fields distinguish unset from false.
type SessionInfoOptions struct {
	Silent  *bool
	Verbose *bool
}

// SessionInfo returns information about the current MAST user.
func (c *Client) SessionInfo(ctx context.Context, opts SessionInfoOptions) (models.SessionInfo, error) {

	verbose := true

	switch {
	case opts.Silent != nil && opts.Verbose != nil:
		deprecate.WarnArgument("silent", "verbose", true)
		verbose = *opts.Verbose
	case opts.Silent != nil:
		deprecate.WarnArgument("silent", "verbose", false)
		verbose = !*opts.Silent
	case opts.Verbose != nil:
		verbose = *opts.Verbose
	}

	return c.auth.SessionInfo(ctx, verbose)
}

// Logout logs out of the current MAST session. The local authenticated
// flag is cleared even when the delegate reports an error.
func (c *Client) Logout(ctx context.Context) error {
	err := c.auth.Logout(ctx)
	c.authenticated = false
	return err
}

// IsAuthenticated reports the last known login outcome.
func (c *Client) IsAuthenticated() bool {
	return c.authenticated
}

// EnableCloudDataset enables downloading public files from S3 instead of
// the MAST servers. The provider argument is reserved for future
// multi-provider support and is not dispatched on today; profile names a
// shared AWS config profile (usually in ~/.aws/config).
func (c *Client) EnableCloudDataset(ctx context.Context, provider string, profile string, verbose bool) error {

	if len(profile) == 0 {
		profile = c.cfg.Cloud.Profile
	}

	cloud, err := c.cloudFactory(ctx, provider, profile, verbose)
	if err != nil {
		return fmt.Errorf("failed to enable cloud dataset access: %w", err)
	}

	c.cloud = cloud
	return nil
}

// DisableCloudDataset disables downloading public files from S3.
// Disabling twice is a no-op.
func (c *Client) DisableCloudDataset() {
	c.cloud = nil
}

// CloudEnabled reports whether a cloud delegate is live.
func (c *Client) CloudEnabled() bool {
	return c.cloud != nil
}

// EnableS3HstDataset is a deprecated alias for EnableCloudDataset.
func (c *Client) EnableS3HstDataset(ctx context.Context) error {
	deprecate.Warn("EnableS3HstDataset", "v0.3.9", "EnableCloudDataset")
	return c.EnableCloudDataset(ctx, "AWS", "", true)
}

// DisableS3HstDataset is a deprecated alias for DisableCloudDataset.
func (c *Client) DisableS3HstDataset() {
	deprecate.Warn("DisableS3HstDataset", "v0.3.9", "DisableCloudDataset")
	c.DisableCloudDataset()
}

// ResolveObject resolves an object name to a position on the sky.
func (c *Client) ResolveObject(ctx context.Context, objectName string) (models.Coordinates, error) {
	return c.resolver.Resolve(ctx, objectName)
}

// GetToken always returns the empty string.
//
// Deprecated: the session token is now the token used for login.
func (c *Client) GetToken() string {
	deprecate.WarnMessage("GetToken", "v0.3.9",
		"the GetToken function is deprecated, session token is now the token used for login")
	return ""
}

// PortalQuery runs a Mashup service request on the shared session.
func (c *Client) PortalQuery(ctx context.Context, req *models.MashupRequest) (*models.MashupResponse, error) {
	return c.portal.ServiceRequest(ctx, req)
}

// ServiceQuery runs a versioned service API request on the shared session.
func (c *Client) ServiceQuery(ctx context.Context, service string, params map[string]string) ([]map[string]any, error) {
	return c.services.ServiceRequest(ctx, service, params)
}

// CloudURI returns the S3 location of a data product. Cloud access must
// be enabled first.
func (c *Client) CloudURI(ctx context.Context, dataURI string) (string, error) {
	if c.cloud == nil {
		return "", ErrCloudDisabled
	}
	return c.cloud.CloudURI(ctx, dataURI)
}

// DownloadFile fetches a data product. With cloud access enabled the
// public bucket is tried first, falling back to the MAST download
// endpoint when the product has no cloud copy.
func (c *Client) DownloadFile(ctx context.Context, dataURI string, localPath string) error {

	if c.cloud != nil {
		err := c.cloud.Download(ctx, dataURI, localPath)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCloudUnavailable) {
			return err
		}
		logrus.WithField("uri", dataURI).Debugln("No cloud copy, falling back to MAST download")
	}

	return c.downloadFromMast(ctx, dataURI, localPath)
}

const downloadFilePath = "/api/v0.1/Download/file"

func (c *Client) downloadFromMast(ctx context.Context, dataURI string, localPath string) error {

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	// The body is saved before the status is known, so download to a
	// scratch name and only move it into place on success. Error pages
	// must never end up at the destination path.
	partPath := localPath + ".part"

	resp, err := c.session.R().
		SetContext(ctx).
		SetQueryParam("uri", dataURI).
		SetOutput(partPath).
		Get(downloadFilePath)

	if err != nil {
		os.Remove(partPath)
		return fmt.Errorf("download of %s failed: %w", dataURI, err)
	}

	if resp.StatusCode() != http.StatusOK {
		os.Remove(partPath)
		return fmt.Errorf("download of %s returned %d: %s",
			dataURI, resp.StatusCode(), resp.Status())
	}

	return os.Rename(partPath, localPath)
}
