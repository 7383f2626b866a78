package mast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duytnguyendtn/astroquery/internal/models"
)

func newTestSession(t *testing.T, handler http.Handler) (*Session, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSession(server.URL, 10*time.Second), server
}

func decodePortalRequest(t *testing.T, r *http.Request) *models.MashupRequest {
	t.Helper()

	require.NoError(t, r.ParseForm())
	raw := r.PostFormValue("request")
	require.NotEmpty(t, raw, "portal requests carry a request form field")

	var request models.MashupRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &request))
	return &request
}

func TestPortalServiceRequest(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, portalInvokePath, r.URL.Path)

		request := decodePortalRequest(t, r)
		assert.Equal(t, "Mast.Caom.Cone", request.Service)
		assert.Equal(t, "json", request.Format)
		assert.NotEmpty(t, request.ClientRequest, "requests carry a correlation ID")

		json.NewEncoder(w).Encode(models.MashupResponse{
			Status: models.MashupStatusComplete,
			Data: []map[string]any{
				{"obs_id": "ib6v06cbq", "target_name": "M101"},
			},
			Fields: []models.MashupField{{Name: "obs_id", Type: "string"}},
		})
	}))

	portal := NewPortalAPI(session)

	response, err := portal.ServiceRequest(context.Background(),
		models.NewMashupRequest("Mast.Caom.Cone", map[string]any{
			"ra": 210.8, "dec": 54.35, "radius": 0.2,
		}))

	require.NoError(t, err)
	require.Len(t, response.Data, 1)
	assert.Equal(t, "M101", response.Data[0]["target_name"])
	assert.True(t, response.IsComplete())
}

func TestPortalRepollsWhileExecuting(t *testing.T) {

	previous := portalPollInterval
	portalPollInterval = time.Millisecond
	t.Cleanup(func() { portalPollInterval = previous })

	var requests int
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			json.NewEncoder(w).Encode(models.MashupResponse{Status: models.MashupStatusExecuting})
			return
		}
		json.NewEncoder(w).Encode(models.MashupResponse{
			Status: models.MashupStatusComplete,
			Data:   []map[string]any{{"obs_id": "x"}},
		})
	}))

	portal := NewPortalAPI(session)

	response, err := portal.ServiceRequest(context.Background(),
		models.NewMashupRequest("Mast.Caom.Filtered", nil))

	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Len(t, response.Data, 1)
}

func TestPortalErrorStatus(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.MashupResponse{
			Status:  models.MashupStatusError,
			Message: "no such service",
		})
	}))

	portal := NewPortalAPI(session)

	_, err := portal.ServiceRequest(context.Background(),
		models.NewMashupRequest("Mast.Nope", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such service")
}

func TestPortalHTTPFailure(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "portal down", http.StatusBadGateway)
	}))

	portal := NewPortalAPI(session)

	_, err := portal.ServiceRequest(context.Background(),
		models.NewMashupRequest("Mast.Caom.Cone", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestPortalPollingHonorsContext(t *testing.T) {

	previous := portalPollInterval
	portalPollInterval = time.Minute
	t.Cleanup(func() { portalPollInterval = previous })

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.MashupResponse{Status: models.MashupStatusExecuting})
	}))

	portal := NewPortalAPI(session)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := portal.ServiceRequest(ctx, models.NewMashupRequest("Mast.Slow", nil))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
