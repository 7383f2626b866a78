package mast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/duytnguyendtn/astroquery/internal/models"
)

const portalInvokePath = "/api/v0/invoke"

// How long to wait between polls while the portal reports EXECUTING.
var portalPollInterval = 1 * time.Second

// PortalAPI is the connection to the MAST discovery portal (Mashup).
// Requests are posted as a JSON document in the `request` form field;
// long-running queries answer EXECUTING and are re-issued until the
// portal reports COMPLETE or ERROR.
type PortalAPI struct {
	session *Session
}

func NewPortalAPI(session *Session) *PortalAPI {
	return &PortalAPI{session: session}
}

// ServiceRequest runs a Mashup service request to completion and returns
// the decoded row envelope.
func (p *PortalAPI) ServiceRequest(ctx context.Context, req *models.MashupRequest) (*models.MashupResponse, error) {

	var response models.MashupResponse
	if err := p.Invoke(ctx, req, &response); err != nil {
		return nil, err
	}

	if response.IsError() {
		return nil, fmt.Errorf("portal request %s failed: %s", req.Service, response.Message)
	}

	return &response, nil
}

// Invoke posts a Mashup request and decodes the completed response body
// into out. Services that answer with a bare document rather than the
// row envelope (the resolver among them) go through here directly.
func (p *PortalAPI) Invoke(ctx context.Context, req *models.MashupRequest, out any) error {

	if len(req.ClientRequest) == 0 {
		req.ClientRequest = uuid.NewString()
	}

	encoded, err := req.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode portal request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"service": req.Service,
		"request": req.ClientRequest,
	}).Debugln("Invoking portal service")

	body, err := p.invokeUntilComplete(ctx, encoded, req.Service)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode portal response for %s: %w", req.Service, err)
	}

	return nil
}

func (p *PortalAPI) invokeUntilComplete(ctx context.Context, encoded string, service string) ([]byte, error) {

	for {
		resp, err := p.session.R().
			SetContext(ctx).
			SetFormData(map[string]string{"request": encoded}).
			Post(portalInvokePath)

		if err != nil {
			return nil, fmt.Errorf("portal request failed: %w", err)
		}

		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("portal returned %d for %s: %s",
				resp.StatusCode(), service, resp.Status())
		}

		// Peek at the status only; callers decode the full body
		var probe struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(resp.Body(), &probe); err != nil {
			return nil, fmt.Errorf("unparseable portal response for %s: %w", service, err)
		}

		if probe.Status != models.MashupStatusExecuting {
			return resp.Body(), nil
		}

		logrus.WithField("service", service).Debugln("Portal query still executing, re-polling")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(portalPollInterval):
		}
	}
}
