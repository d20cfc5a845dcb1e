package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kamertour/kamertour/internal/pkg/geospatial"
)

// Category classifies a point of interest.
type Category string

const (
	CategoryHistorical    Category = "historical"
	CategoryNatural       Category = "natural"
	CategoryCultural      Category = "cultural"
	CategoryReligious     Category = "religious"
	CategoryEntertainment Category = "entertainment"
	CategoryRestaurant    Category = "restaurant"
	CategoryHotel         Category = "hotel"
	CategoryOther         Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHistorical,
	CategoryNatural,
	CategoryCultural,
	CategoryReligious,
	CategoryEntertainment,
	CategoryRestaurant,
	CategoryHotel,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryHistorical:    "Historique",
	CategoryNatural:       "Naturel",
	CategoryCultural:      "Culturel",
	CategoryReligious:     "Religieux",
	CategoryEntertainment: "Divertissement",
	CategoryRestaurant:    "Restaurant",
	CategoryHotel:         "Hôtel",
	CategoryOther:         "Autre",
}

var categoryColors = map[Category]string{
	CategoryHistorical:    "#FFA500",
	CategoryNatural:       "#00A86B",
	CategoryCultural:      "#9370DB",
	CategoryReligious:     "#4169E1",
	CategoryEntertainment: "#FF1493",
	CategoryRestaurant:    "#FF6347",
	CategoryHotel:         "#1E90FF",
	CategoryOther:         "#808080",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the French display name; unknown categories read as "Autre".
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryOther]
}

// Color returns the map marker colour.
func (c Category) Color() string {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return categoryColors[CategoryOther]
}

// ParseCategories parses a comma-separated list such as "natural,hotel".
// Empty items are skipped; the first unknown value is reported.
func ParseCategories(s string) ([]Category, error) {
	var out []Category
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		c := Category(part)
		if !c.Valid() {
			return nil, &ValidationError{Field: "category", Message: "unknown category " + part}
		}
		out = append(out, c)
	}
	return out, nil
}

// POIStatus is the moderation state of a point of interest.
type POIStatus string

const (
	POIStatusPending   POIStatus = "pending"
	POIStatusPublished POIStatus = "published"
	POIStatusRejected  POIStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s POIStatus) Valid() bool {
	switch s {
	case POIStatusPending, POIStatusPublished, POIStatusRejected:
		return true
	}
	return false
}

// POI is a point of interest listed in the directory.
type POI struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Location    GeoPoint  `json:"location"`
	Images      []string  `json:"images"`
	Details     string    `json:"details,omitempty"`
	Status      POIStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements geospatial.Entity.
func (p POI) EntityID() string { return p.ID }

// Point implements geospatial.Entity.
func (p POI) Point() geospatial.Point { return p.Location.Geo() }

const (
	maxNameLength = 200
	maxImages     = 10
)

// Validate checks the user-supplied fields of a POI.
func (p *POI) Validate() error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case utf8.RuneCountInString(name) > maxNameLength:
		return &ValidationError{Field: "name", Message: "must be at most 200 characters"}
	case strings.TrimSpace(p.Description) == "":
		return &ValidationError{Field: "description", Message: "is required"}
	case !p.Category.Valid():
		return &ValidationError{Field: "category", Message: "unknown category " + string(p.Category)}
	case len(p.Images) > maxImages:
		return &ValidationError{Field: "images", Message: "at most 10 images are allowed"}
	}
	return p.Location.Validate()
}

// Matches reports whether the POI contains term in its name, description or
// details, ignoring case. An empty term matches everything.
func (p *POI) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Details), term)
}

// POIFilter narrows a POI listing.
type POIFilter struct {
	Query      string
	Categories []Category
	Status     POIStatus
	Offset     int
	Limit      int
}

// NearbyPOI is a POI annotated with its distance from a reference.
type NearbyPOI struct {
	POI
	DistanceKm float64 `json:"distance_km"`
}

// RouteEstimate is a straight-line travel estimate between two POIs.
type RouteEstimate struct {
	Origin          *POI       `json:"origin"`
	Destination     *POI       `json:"destination"`
	DistanceKm      float64    `json:"distance_km"`
	DurationMinutes float64    `json:"duration_minutes"`
	EstimatedPrice  float64    `json:"estimated_price"`
	Currency        string     `json:"currency"`
	Disclaimer      string     `json:"disclaimer"`
	AdditionalInfo  string     `json:"additional_info,omitempty"`
	Path            []GeoPoint `json:"path"`
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusReported CommentStatus = "reported"
)

// Valid reports whether s is a known status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusReported:
		return true
	}
	return false
}

// Comment is a visitor review attached to a POI.
type Comment struct {
	ID        string        `json:"id"`
	POIID     string        `json:"poi_id"`
	UserName  string        `json:"user_name"`
	Content   string        `json:"content"`
	Rating    int           `json:"rating"`
	Status    CommentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

const maxCommentLength = 2000

// Validate checks the user-supplied fields of a comment.
func (c *Comment) Validate() error {
	switch {
	case strings.TrimSpace(c.POIID) == "":
		return &ValidationError{Field: "poi_id", Message: "is required"}
	case strings.TrimSpace(c.UserName) == "":
		return &ValidationError{Field: "user_name", Message: "is required"}
	case strings.TrimSpace(c.Content) == "":
		return &ValidationError{Field: "content", Message: "is required"}
	case utf8.RuneCountInString(c.Content) > maxCommentLength:
		return &ValidationError{Field: "content", Message: "must be at most 2000 characters"}
	case c.Rating < 1 || c.Rating > 5:
		return &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	return nil
}

// CommentFilter narrows a comment listing.
type CommentFilter struct {
	POIID  string
	Status CommentStatus
	Query  string
	Offset int
	Limit  int
}

// Favorite is a POI saved by a visitor, with private notes. UserID is an
// opaque identifier supplied by the client.
type Favorite struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	POIID     string     `json:"poi_id"`
	Notes     string     `json:"notes"`
	Rating    int        `json:"rating,omitempty"` // 0 when unrated
	VisitDate *time.Time `json:"visit_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const maxNotesLength = 2000

// Validate checks the user-supplied fields of a favorite.
func (f *Favorite) Validate() error {
	switch {
	case strings.TrimSpace(f.UserID) == "":
		return &ValidationError{Field: "user_id", Message: "is required"}
	case strings.TrimSpace(f.POIID) == "":
		return &ValidationError{Field: "poi_id", Message: "is required"}
	case utf8.RuneCountInString(f.Notes) > maxNotesLength:
		return &ValidationError{Field: "notes", Message: "must be at most 2000 characters"}
	case f.Rating < 0 || f.Rating > 5:
		return &ValidationError{Field: "rating", Message: "must be between 1 and 5, or 0 for none"}
	}
	return nil
}

// FavoriteEntry is a favorite together with the POI it points to.
type FavoriteEntry struct {
	Favorite
	POI POI `json:"poi"`
}

// Matches reports whether term appears in the POI text or the notes.
func (e *FavoriteEntry) Matches(term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	return e.POI.Matches(term) ||
		strings.Contains(strings.ToLower(e.Notes), strings.ToLower(strings.TrimSpace(term)))
}

// FavoriteFilter narrows a user's favorites.
type FavoriteFilter struct {
	UserID     string
	Query      string
	Categories []Category
}

// DashboardStats summarises the directory for the admin dashboard.
type DashboardStats struct {
	TotalPOIs  int                   `json:"total_pois"`
	ByCategory map[Category]int      `json:"by_category"`
	ByStatus   map[POIStatus]int     `json:"by_status"`
	Comments   map[CommentStatus]int `json:"comments"`
}
