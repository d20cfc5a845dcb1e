package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	poiFields := graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"location":    &graphql.Field{Type: geoPointType},
		"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"details":     &graphql.Field{Type: graphql.String},
		"status":      &graphql.Field{Type: graphql.String},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
		"updated_at":  &graphql.Field{Type: graphql.DateTime},
	}

	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "POI",
		Fields: poiFields,
	})

	nearbyFields := graphql.Fields{
		"distance_km": &graphql.Field{Type: graphql.Float},
	}
	for name, f := range poiFields {
		nearbyFields[name] = &graphql.Field{Type: f.Type}
	}
	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "NearbyPOI",
		Fields: nearbyFields,
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteEstimate",
		Fields: graphql.Fields{
			"origin":           &graphql.Field{Type: poiType},
			"destination":      &graphql.Field{Type: poiType},
			"distance_km":      &graphql.Field{Type: graphql.Float},
			"duration_minutes": &graphql.Field{Type: graphql.Float},
			"estimated_price":  &graphql.Field{Type: graphql.Float},
			"currency":         &graphql.Field{Type: graphql.String},
			"disclaimer":       &graphql.Field{Type: graphql.String},
			"additional_info":  &graphql.Field{Type: graphql.String},
			"path":             &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"value": &graphql.Field{Type: graphql.String},
			"label": &graphql.Field{Type: graphql.String},
			"color": &graphql.Field{Type: graphql.String},
		},
	})

	countType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Count",
		Fields: graphql.Fields{
			"key":   &graphql.Field{Type: graphql.String},
			"count": &graphql.Field{Type: graphql.Int},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"total_pois":  &graphql.Field{Type: graphql.Int},
			"by_category": &graphql.Field{Type: graphql.NewList(countType)},
			"by_status":   &graphql.Field{Type: graphql.NewList(countType)},
			"comments":    &graphql.Field{Type: graphql.NewList(countType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"pois": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "Search published POIs",
				Args: graphql.FieldConfigArgument{
					"query":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cats, err := domain.ParseCategories(p.Args["category"].(string))
					if err != nil {
						return nil, err
					}
					pois, _, err := deps.POIs.List(p.Context, domain.POIFilter{
						Query:      p.Args["query"].(string),
						Categories: cats,
						Offset:     p.Args["offset"].(int),
						Limit:      p.Args["limit"].(int),
					})
					return pois, err
				},
			},
			"poi": &graphql.Field{
				Type:        poiType,
				Description: "Get a POI by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.POIs.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"nearbyPois": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Published POIs within radius km of a POI, in catalogue order",
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					radius := deps.POIs.Proximity().DefaultRadiusKm
					if r, ok := p.Args["radius"].(float64); ok {
						radius = r
					}
					items, err := deps.POIs.Nearby(p.Context, p.Args["id"].(string), radius, p.Args["limit"].(int))
					return nearbyResult(items), err
				},
			},
			"nearestPois": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "The n published POIs closest to a POI",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"n":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, err := deps.POIs.Nearest(p.Context, p.Args["id"].(string), p.Args["n"].(int))
					return nearbyResult(items), err
				},
			},
			"poisAround": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Published POIs around a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					radius := deps.POIs.Proximity().DefaultRadiusKm
					if r, ok := p.Args["radius"].(float64); ok {
						radius = r
					}
					point := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					items, err := deps.POIs.Around(p.Context, point, radius, p.Args["limit"].(int))
					return nearbyResult(items), err
				},
			},
			"routeEstimate": &graphql.Field{
				Type:        routeType,
				Description: "Straight-line route estimate between two POIs",
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"note": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.Estimate(p.Context, p.Args["from"].(string), p.Args["to"].(string), p.Args["note"].(string))
				},
			},
			"categories": &graphql.Field{
				Type:        graphql.NewList(categoryType),
				Description: "Every POI category with its label and colour",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out := make([]CategoryInfo, len(domain.Categories))
					for i, cat := range domain.Categories {
						out[i] = CategoryInfo{Value: cat, Label: cat.Label(), Color: cat.Color()}
					}
					return out, nil
				},
			},
			"stats": &graphql.Field{
				Type:        statsType,
				Description: "Dashboard counts",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := deps.Stats.Dashboard(p.Context)
					if err != nil {
						return nil, err
					}
					return statsResult(s), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// nearbyResult flattens NearbyPOI values; the default resolver does not
// descend into embedded structs.
func nearbyResult(items []domain.NearbyPOI) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, n := range items {
		out = append(out, map[string]interface{}{
			"id":          n.ID,
			"name":        n.Name,
			"description": n.Description,
			"category":    string(n.Category),
			"location":    n.Location,
			"images":      n.Images,
			"details":     n.Details,
			"status":      string(n.Status),
			"created_at":  n.CreatedAt,
			"updated_at":  n.UpdatedAt,
			"distance_km": n.DistanceKm,
		})
	}
	return out
}

func statsResult(s *domain.DashboardStats) map[string]interface{} {
	byCategory := make([]map[string]interface{}, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		byCategory = append(byCategory, map[string]interface{}{"key": string(cat), "count": s.ByCategory[cat]})
	}
	byStatus := make([]map[string]interface{}, 0, 3)
	for _, st := range []domain.POIStatus{domain.POIStatusPending, domain.POIStatusPublished, domain.POIStatusRejected} {
		byStatus = append(byStatus, map[string]interface{}{"key": string(st), "count": s.ByStatus[st]})
	}
	comments := make([]map[string]interface{}, 0, 3)
	for _, st := range []domain.CommentStatus{domain.CommentStatusPending, domain.CommentStatusApproved, domain.CommentStatusReported} {
		comments = append(comments, map[string]interface{}{"key": string(st), "count": s.Comments[st]})
	}
	return map[string]interface{}{
		"total_pois":  s.TotalPOIs,
		"by_category": byCategory,
		"by_status":   byStatus,
		"comments":    comments,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
