package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// catalogEntry is one POI in a catalogue export. Coordinates are [lat, lon].
type catalogEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Coordinates [2]float64 `json:"coordinates"`
	Images      []string   `json:"images"`
	Details     string     `json:"details"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (e catalogEntry) toPOI(now time.Time) (domain.POI, error) {
	p := domain.POI{
		ID:          strings.TrimSpace(e.ID),
		Name:        strings.TrimSpace(e.Name),
		Description: strings.TrimSpace(e.Description),
		Category:    domain.Category(strings.ToLower(strings.TrimSpace(e.Category))),
		Location:    domain.GeoPoint{Lat: e.Coordinates[0], Lon: e.Coordinates[1]},
		Images:      e.Images,
		Details:     strings.TrimSpace(e.Details),
		Status:      domain.POIStatusPublished,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if p.ID == "" {
		return p, &domain.ValidationError{Field: "id", Message: "is required"}
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

// parseCatalog decodes a catalogue export. Every entry is validated; the
// first invalid one aborts the import.
func parseCatalog(r io.Reader, now time.Time) ([]domain.POI, error) {
	var entries []catalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	pois := make([]domain.POI, 0, len(entries))
	for i, e := range entries {
		p, err := e.toPOI(now)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		pois = append(pois, p)
	}
	return pois, nil
}

// openCatalog opens a local file or downloads an http(s) URL.
func openCatalog(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.Open(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}
	return resp.Body, nil
}
