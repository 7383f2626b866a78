package mast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const serviceAPIPrefix = "/api/v0.1/"

// ServiceAPI is the connection to the versioned MAST service endpoints
// (catalog cone searches, crossmatch and the like). Unlike the portal
// these are plain GET endpoints with query parameters.
type ServiceAPI struct {
	session *Session
}

func NewServiceAPI(session *Session) *ServiceAPI {
	return &ServiceAPI{session: session}
}

// ServiceRequest calls a named service and returns the decoded rows.
// Services answer either a {"data": [...]} envelope or a bare JSON
// array; both are accepted.
func (s *ServiceAPI) ServiceRequest(ctx context.Context, service string, params map[string]string) ([]map[string]any, error) {

	resp, err := s.session.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(serviceAPIPrefix + service)

	if err != nil {
		return nil, fmt.Errorf("service request %s failed: %w", service, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("service %s returned %d: %s",
			service, resp.StatusCode(), resp.Status())
	}

	return decodeServiceRows(service, resp.Body())
}

func decodeServiceRows(service string, body []byte) ([]map[string]any, error) {

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", service, err)
	}

	return rows, nil
}
