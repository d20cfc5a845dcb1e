package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the services.
const (
	AttrPOIID         = attribute.Key("poi.id")
	AttrOriginID      = attribute.Key("route.origin_id")
	AttrDestinationID = attribute.Key("route.destination_id")
	AttrRadiusKm      = attribute.Key("geo.radius_km")
	AttrLimit         = attribute.Key("geo.limit")
	AttrLat           = attribute.Key("geo.lat")
	AttrLon           = attribute.Key("geo.lon")
	AttrCandidates    = attribute.Key("geo.candidates")
	AttrResults       = attribute.Key("geo.results")
)
