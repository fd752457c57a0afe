// Package geocoder resolves user locations for resource lookup. Text
// extraction runs first because it is cheap and keeps coordinates off the
// wire; device coordinates are a best-effort secondary source whose failure
// is always silent.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cvmhw/rogercore/config"
	apperrors "github.com/cvmhw/rogercore/internal/errors"
	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/models"
)

// Resolver resolves locations from message text or device coordinates.
type Resolver struct {
	client      *http.Client
	providerURL string
	timeout     time.Duration
}

// New creates a resolver backed by a reverse-geocoding provider.
func New(cfg config.GeocoderConfig) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		providerURL: cfg.ProviderURL,
		timeout:     cfg.RequestTimeout,
	}
}

// FromText extracts a location from message text via the gazetteer.
func (r *Resolver) FromText(text string) *models.LocationInfo {
	return FromText(text)
}

// reverseGeocodeResponse mirrors the provider's JSON shape.
type reverseGeocodeResponse struct {
	City                 string  `json:"city"`
	Locality             string  `json:"locality"`
	PrincipalSubdivision string  `json:"principalSubdivision"`
	CountryName          string  `json:"countryName"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
}

// FromDevice reverse-geocodes device coordinates. Returns nil on timeout,
// transport failure, or an unusable provider response; it never panics and
// never blocks past the configured timeout.
func (r *Resolver) FromDevice(ctx context.Context, lat, lon float64) *models.LocationInfo {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	loc, err := r.reverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Debug("Device geolocation unavailable", "error", err)
		return nil
	}
	return loc
}

func (r *Resolver) reverseGeocode(ctx context.Context, lat, lon float64) (*models.LocationInfo, error) {
	reqURL := fmt.Sprintf("%s?latitude=%s&longitude=%s&localityLanguage=en",
		r.providerURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.GeocodeError{Provider: r.providerURL, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.GeocodeError{Provider: r.providerURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.GeocodeError{
			Provider: r.providerURL,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.GeocodeError{Provider: r.providerURL, Err: err}
	}

	loc := &models.LocationInfo{
		City:    body.City,
		Region:  body.PrincipalSubdivision,
		Country: body.CountryName,
		Lat:     body.Latitude,
		Lon:     body.Longitude,
	}
	if loc.City == "" {
		loc.City = body.Locality
	}
	if !loc.Sufficient() {
		return nil, apperrors.GeocodeError{
			Provider: r.providerURL,
			Err:      fmt.Errorf("response carried no usable place name"),
		}
	}
	return loc, nil
}
