package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/pkg/geospatial"
)

var errNotFinite = errors.New("result is not a finite number")

// boxArgs are the four edges shared by the box queries.
var boxArgs = graphql.FieldConfigArgument{
	"west":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	"south": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	"east":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	"north": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
}

func boxFromArgs(args map[string]interface{}) domain.BoundingBox {
	return domain.BoundingBox{
		West:  args["west"].(float64),
		South: args["south"].(float64),
		East:  args["east"].(float64),
		North: args["north"].(float64),
	}
}

func boxFields() graphql.Fields {
	return graphql.Fields{
		"west":  &graphql.Field{Type: graphql.Float},
		"south": &graphql.Field{Type: graphql.Float},
		"east":  &graphql.Field{Type: graphql.Float},
		"north": &graphql.Field{Type: graphql.Float},
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	projectedPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProjectedPoint",
		Fields: graphql.Fields{
			"x": &graphql.Field{Type: graphql.Float},
			"y": &graphql.Field{Type: graphql.Float},
		},
	})

	boundingBoxType := graphql.NewObject(graphql.ObjectConfig{Name: "BoundingBox", Fields: boxFields()})
	projectedBoxType := graphql.NewObject(graphql.ObjectConfig{Name: "ProjectedBoundingBox", Fields: boxFields()})

	dmsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DMS",
		Fields: graphql.Fields{
			"degrees":    &graphql.Field{Type: graphql.Int},
			"minutes":    &graphql.Field{Type: graphql.Int},
			"seconds":    &graphql.Field{Type: graphql.Float},
			"hemisphere": &graphql.Field{Type: graphql.String},
			"text": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if d, ok := p.Source.(domain.DMS); ok {
						return d.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	boundsDMSType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BoundsDMS",
		Fields: graphql.Fields{
			"west":  &graphql.Field{Type: dmsType},
			"east":  &graphql.Field{Type: dmsType},
			"south": &graphql.Field{Type: dmsType},
			"north": &graphql.Field{Type: dmsType},
		},
	})

	validationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BoxValidation",
		Fields: graphql.Fields{
			"valid":  &graphql.Field{Type: graphql.Boolean},
			"reason": &graphql.Field{Type: graphql.String},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"slug":       &graphql.Field{Type: graphql.String},
			"source":     &graphql.Field{Type: graphql.String},
			"bounds":     &graphql.Field{Type: boundingBoxType},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"toDecimal": &graphql.Field{
				Type:        graphql.Float,
				Description: "Convert degrees, minutes and seconds to decimal degrees",
				Args: graphql.FieldConfigArgument{
					"degrees":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"minutes":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"seconds":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"hemisphere": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var h domain.Hemisphere
					if raw, ok := p.Args["hemisphere"].(string); ok && raw != "" {
						parsed, err := geospatial.ParseHemisphere(raw)
						if err != nil {
							return nil, err
						}
						h = parsed
					}
					return deps.Conversions.ToDecimal(
						p.Args["degrees"].(float64), p.Args["minutes"].(float64), p.Args["seconds"].(float64), h,
					), nil
				},
			},
			"toDMS": &graphql.Field{
				Type:        dmsType,
				Description: "Split a decimal value into degrees, minutes and seconds",
				Args: graphql.FieldConfigArgument{
					"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"axis":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "lat"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					axis, err := geospatial.ParseAxis(p.Args["axis"].(string))
					if err != nil {
						return nil, err
					}
					return deps.Conversions.ToDMS(p.Args["value"].(float64), axis), nil
				},
			},
			"forward": &graphql.Field{
				Type:        projectedPointType,
				Description: "Project a lon/lat point to spherical-Mercator meters",
				Args: graphql.FieldConfigArgument{
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := deps.Conversions.Forward(p.Args["lon"].(float64), p.Args["lat"].(float64))
					if !finite(pt.X, pt.Y) {
						return nil, errNotFinite
					}
					return pt, nil
				},
			},
			"inverse": &graphql.Field{
				Type:        geoPointType,
				Description: "Convert spherical-Mercator meters to lon/lat",
				Args: graphql.FieldConfigArgument{
					"x": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"y": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversions.Inverse(p.Args["x"].(float64), p.Args["y"].(float64)), nil
				},
			},
			"boxForward": &graphql.Field{
				Type:        projectedBoxType,
				Description: "Project a lon/lat box corner by corner",
				Args:        boxArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pb := deps.Conversions.BoxForward(boxFromArgs(p.Args))
					if !pb.IsFinite() {
						return nil, errNotFinite
					}
					return pb, nil
				},
			},
			"validateBox": &graphql.Field{
				Type:        validationType,
				Description: "Apply the drawing guard to a box",
				Args:        boxArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					b := boxFromArgs(p.Args)
					reason := geospatial.InvalidReason(b.West, b.South, b.East, b.North)
					return ValidationResponse{Valid: reason == "", Reason: reason}, nil
				},
			},
			"boundsDMS": &graphql.Field{
				Type:        boundsDMSType,
				Description: "Split decimal bounds into DMS edges",
				Args:        boxArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Conversions.BoundsToDMS(boxFromArgs(p.Args)), nil
				},
			},
			"place": &graphql.Field{
				Type:        placeType,
				Description: "Get a gazetteer place by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.Lookup(p.Context, p.Args["name"].(string))
				},
			},
			"searchPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Search places by name (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.Search(p.Context, p.Args["query"].(string), p.Args["limit"].(int))
				},
			},
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "List the gazetteer",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.List(p.Context)
				},
			},
			"geocode": &graphql.Field{
				Type:        placeType,
				Description: "Resolve a free-form address to a place",
				Args: graphql.FieldConfigArgument{
					"address": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.Geocode(p.Context, p.Args["address"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// gqlRequest is the standard GraphQL-over-HTTP request body.
type gqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves POST /graphql.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid GraphQL request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        c.UserContext(),
		})
		return c.JSON(result)
	}
}
