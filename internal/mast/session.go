// Package mast implements the client for the MAST archive web services:
// the discovery portal (Mashup), the versioned service API, token
// authentication, optional S3 access to the public datasets and name
// resolution.
package mast

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/duytnguyendtn/astroquery/internal/common"
)

// Session is the shared network context. One session is opened per
// client and shared by reference with every API connection, so cookies
// and the auth token apply across portal, service and login calls.
type Session struct {
	client  *resty.Client
	baseURL string
}

func NewSession(baseURL string, timeout time.Duration) *Session {
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("mastquery/%s", common.GetVersion())).
		// MAST expects "Authorization: token <tok>", not the Bearer scheme
		SetAuthScheme("token")

	return &Session{
		client:  client,
		baseURL: baseURL,
	}
}

// R starts a new request on the shared client.
func (s *Session) R() *resty.Request {
	return s.client.R()
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

// Hostname returns the API host, used as the token store key.
func (s *Session) Hostname() string {
	parsed, err := url.Parse(s.baseURL)
	if err != nil {
		return s.baseURL
	}
	return parsed.Hostname()
}

// SetAuthToken attaches the MAST token to every subsequent request on
// this session.
func (s *Session) SetAuthToken(token string) {
	s.client.SetAuthToken(token)
}

// ClearAuth drops the auth token and any session cookies.
func (s *Session) ClearAuth() {
	s.client.SetAuthToken("")
	s.client.Cookies = nil
	s.client.SetCookieJar(nil)
}
