package http_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/kamertour/kamertour/api"
)

func loadOpenAPI(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse openapi.yaml: %v", err)
	}
	return doc
}

// TestOpenAPISpec validates the embedded OpenAPI document.
func TestOpenAPISpec(t *testing.T) {
	doc := loadOpenAPI(t)
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI document validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/pois",
		"/v1/pois/nearby",
		"/v1/pois/{id}",
		"/v1/pois/{id}/nearby",
		"/v1/pois/{id}/nearest",
		"/v1/pois/{id}/route",
		"/v1/pois/{id}/comments",
		"/v1/pois/{id}/duplicates",
		"/v1/pois/{id}/publish",
		"/v1/pois/{id}/reject",
		"/v1/moderation/pois",
		"/v1/routes",
		"/v1/route",
		"/v1/comments",
		"/v1/comments/{id}",
		"/v1/comments/{id}/approve",
		"/v1/comments/{id}/report",
		"/v1/users/{user}/favorites",
		"/v1/users/{user}/favorites/{id}",
		"/v1/categories",
		"/v1/stats",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if doc.Paths.Find(path) == nil {
			t.Errorf("expected path %s not found", path)
		}
	}

	expectedSchemas := []string{
		"POI",
		"POIInput",
		"NearbyPOI",
		"NearbyResponse",
		"RouteEstimate",
		"Comment",
		"Favorite",
		"FavoriteInput",
		"FavoriteEntry",
		"CategoryInfo",
		"DashboardStats",
		"APIError",
		"Pagination",
	}
	for _, name := range expectedSchemas {
		if doc.Components.Schemas[name] == nil {
			t.Errorf("expected schema %s not found", name)
		}
	}
}

func TestOpenAPIInfo(t *testing.T) {
	doc := loadOpenAPI(t)

	if doc.Info.Title != "KamerTour API" {
		t.Errorf("unexpected title %q", doc.Info.Title)
	}
	if doc.Info.Version != "1.0.0" {
		t.Errorf("unexpected version %q", doc.Info.Version)
	}
	if doc.Info.Description == "" {
		t.Error("expected a description")
	}
	if len(doc.Servers) == 0 {
		t.Error("expected at least one server")
	}
}

func TestOpenAPILegacyRouteDeprecated(t *testing.T) {
	doc := loadOpenAPI(t)
	item := doc.Paths.Find("/v1/route")
	if item == nil || item.Get == nil {
		t.Fatal("expected GET /v1/route")
	}
	if !item.Get.Deprecated {
		t.Error("expected GET /v1/route to be deprecated")
	}
}
