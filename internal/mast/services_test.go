package mast

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRequestEnvelope(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0.1/panstarrs/dr2/mean", r.URL.Path)
		assert.Equal(t, "210.8", r.URL.Query().Get("ra"))

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"objID": 12345, "raMean": 210.8},
			},
		})
	}))

	services := NewServiceAPI(session)

	rows, err := services.ServiceRequest(context.Background(), "panstarrs/dr2/mean",
		map[string]string{"ra": "210.8", "dec": "54.35", "radius": "0.05"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 210.8, rows[0]["raMean"])
}

func TestServiceRequestBareArray(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "a"}, {"name": "b"},
		})
	}))

	services := NewServiceAPI(session)

	rows, err := services.ServiceRequest(context.Background(), "catalogs/tic", nil)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestServiceRequestUnauthorized(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusUnauthorized)
	}))

	services := NewServiceAPI(session)

	_, err := services.ServiceRequest(context.Background(), "hsc/exclusive", nil)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestServiceRequestServerError(t *testing.T) {

	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))

	services := NewServiceAPI(session)

	_, err := services.ServiceRequest(context.Background(), "catalogs/tic", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
