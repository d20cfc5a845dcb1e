package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// poiInput is the body accepted by POST and PUT /v1/pois.
type poiInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	Location    domain.GeoPoint `json:"location"`
	Images      []string        `json:"images"`
	Details     string          `json:"details"`
}

func (in poiInput) toPOI() *domain.POI {
	return &domain.POI{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Images:      in.Images,
		Details:     in.Details,
	}
}

// NearbyResponse lists POIs around a reference.
type NearbyResponse struct {
	Reference any                `json:"reference"`
	RadiusKm  float64            `json:"radius_km,omitempty"`
	Count     int                `json:"count"`
	Data      []domain.NearbyPOI `json:"data"`
}

// CategoryInfo describes one category for map legends.
type CategoryInfo struct {
	Value domain.Category `json:"value"`
	Label string          `json:"label"`
	Color string          `json:"color"`
}

// queryFloat parses an optional float query parameter. ok is false when the
// parameter is present but malformed or not finite.
func queryFloat(c *fiber.Ctx, key string, def float64) (float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ListPOIsHandler returns a filtered page of POIs.
func ListPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := domain.ParseCategories(c.Query("category"))
		if err != nil {
			return respondErr(c, err)
		}
		status := domain.POIStatus(c.Query("status"))
		if status != "" && !status.Valid() {
			return errBadRequest(c, "unknown status "+string(status))
		}
		q := c.Query("q")
		if len(q) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		offset, limit := pageParams(c, 20, 100)

		pois, total, err := deps.POIs.List(c.UserContext(), domain.POIFilter{
			Query:      q,
			Categories: cats,
			Status:     status,
			Offset:     offset,
			Limit:      limit,
		})
		if err != nil {
			return respondErr(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: pois, Pagination: pg})
	}
}

// GetPOIHandler returns a single POI.
func GetPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poi, err := deps.POIs.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(poi)
	}
}

// CreatePOIHandler submits a POI for moderation.
func CreatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in poiInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		poi, err := deps.POIs.Submit(c.UserContext(), in.toPOI())
		if err != nil {
			return respondErr(c, err)
		}
		c.Location("/v1/pois/" + poi.ID)
		return c.Status(fiber.StatusCreated).JSON(poi)
	}
}

// UpdatePOIHandler replaces the editable fields of a POI.
func UpdatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in poiInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		poi, err := deps.POIs.Update(c.UserContext(), c.Params("id"), in.toPOI())
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(poi)
	}
}

// DeletePOIHandler removes a POI.
func DeletePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.POIs.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondErr(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// NearbyPOIsHandler returns published POIs within radius km of a POI, in
// catalogue order.
func NearbyPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		radius, ok := queryFloat(c, "radius", deps.POIs.Proximity().DefaultRadiusKm)
		if !ok {
			return errBadRequest(c, "radius must be a number of kilometres")
		}
		id := c.Params("id")
		items, err := deps.POIs.Nearby(c.UserContext(), id, radius, c.QueryInt("limit", 0))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(NearbyResponse{Reference: fiber.Map{"id": id}, RadiusKm: deps.POIs.EffectiveRadius(radius), Count: len(items), Data: items})
	}
}

// NearestPOIsHandler returns the n published POIs closest to a POI.
func NearestPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n := c.QueryInt("n", 5)
		if n < 0 {
			return errBadRequest(c, "n must not be negative")
		}
		id := c.Params("id")
		items, err := deps.POIs.Nearest(c.UserContext(), id, n)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(NearbyResponse{Reference: fiber.Map{"id": id}, Count: len(items), Data: items})
	}
}

// AroundPointHandler returns published POIs around lat/lon, nearest first.
func AroundPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat, okLat := queryFloat(c, "lat", 0)
		lon, okLon := queryFloat(c, "lon", 0)
		radius, okRadius := queryFloat(c, "radius", deps.POIs.Proximity().DefaultRadiusKm)
		if !okLat || !okLon || !okRadius {
			return errBadRequest(c, "lat, lon and radius must be numbers")
		}

		point := domain.GeoPoint{Lat: lat, Lon: lon}
		items, err := deps.POIs.Around(c.UserContext(), point, radius, c.QueryInt("limit", 0))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(NearbyResponse{Reference: point, RadiusKm: deps.POIs.EffectiveRadius(radius), Count: len(items), Data: items})
	}
}

// routeRequest is the body accepted by POST /v1/routes.
type routeRequest struct {
	OriginID      string `json:"origin_id"`
	DestinationID string `json:"destination_id"`
	Note          string `json:"note"`
}

// EstimateRouteHandler estimates the route from a POI to ?to=.
func EstimateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.Estimate(c.UserContext(), c.Params("id"), c.Query("to"), c.Query("note"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(route)
	}
}

// CreateRouteHandler estimates a route from a JSON body.
func CreateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req routeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		route, err := deps.Routes.Estimate(c.UserContext(), req.OriginID, req.DestinationID, req.Note)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(route)
	}
}

// LegacyRouteHandler serves GET /v1/route?from=&to=.
func LegacyRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.Estimate(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("note"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(route)
	}
}

// ListCategoriesHandler returns every category with its label and colour.
func ListCategoriesHandler() fiber.Handler {
	out := make([]CategoryInfo, len(domain.Categories))
	for i, cat := range domain.Categories {
		out[i] = CategoryInfo{Value: cat, Label: cat.Label(), Color: cat.Color()}
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(out)
	}
}

// StatsHandler returns dashboard counts.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Stats.Dashboard(c.UserContext())
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(stats)
	}
}
