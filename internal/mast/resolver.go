package mast

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/duytnguyendtn/astroquery/internal/models"
)

// Resolver maps free-text object names to sky positions through the
// portal name-lookup service.
type Resolver struct {
	portal  *PortalAPI
	service string
}

func NewResolver(portal *PortalAPI, service string) *Resolver {
	if len(service) == 0 {
		service = "Mast.Name.Lookup"
	}
	return &Resolver{
		portal:  portal,
		service: service,
	}
}

// Resolve returns the ICRS position of a named object. The lookup
// service answers a bare document rather than the usual row envelope.
func (r *Resolver) Resolve(ctx context.Context, objectName string) (models.Coordinates, error) {

	objectName = strings.TrimSpace(objectName)
	if len(objectName) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w: empty object name", ErrResolutionFailed)
	}

	request := models.NewMashupRequest(r.service, map[string]any{
		"input":  objectName,
		"format": "json",
	})

	var result struct {
		ResolvedCoordinate []struct {
			RA            float64 `json:"ra"`
			Decl          float64 `json:"decl"`
			Resolver      string  `json:"resolver"`
			CanonicalName string  `json:"canonicalName"`
		} `json:"resolvedCoordinate"`
	}

	if err := r.portal.Invoke(ctx, request, &result); err != nil {
		return models.Coordinates{}, err
	}

	if len(result.ResolvedCoordinate) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w: %q", ErrResolutionFailed, objectName)
	}

	resolved := result.ResolvedCoordinate[0]

	logrus.WithFields(logrus.Fields{
		"object":   objectName,
		"resolver": resolved.Resolver,
		"ra":       resolved.RA,
		"dec":      resolved.Decl,
	}).Debugln("Resolved object name")

	return models.NewCoordinates(resolved.RA, resolved.Decl), nil
}
