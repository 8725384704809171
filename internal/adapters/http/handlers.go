package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/pkg/geospatial"
)

// ---- Request and response bodies ----

type boxRequest struct {
	West  *float64 `json:"west" validate:"required"`
	South *float64 `json:"south" validate:"required"`
	East  *float64 `json:"east" validate:"required"`
	North *float64 `json:"north" validate:"required"`
}

func (r boxRequest) box() domain.BoundingBox {
	return domain.BoundingBox{West: *r.West, South: *r.South, East: *r.East, North: *r.North}
}

type projectedBoxRequest struct {
	West  *float64 `json:"west" validate:"required"`
	South *float64 `json:"south" validate:"required"`
	East  *float64 `json:"east" validate:"required"`
	North *float64 `json:"north" validate:"required"`
}

func (r projectedBoxRequest) box() domain.ProjectedBoundingBox {
	return domain.ProjectedBoundingBox{West: *r.West, South: *r.South, East: *r.East, North: *r.North}
}

type regionRequest struct {
	boxRequest
	Source string `json:"source" validate:"omitempty,oneof=map place geocoder form"`
}

type pointRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type polygonRequest struct {
	Points []pointRequest `json:"points" validate:"required,dive"`
}

type latDMSRequest struct {
	Degrees    int     `json:"degrees" validate:"gte=0,lte=90"`
	Minutes    int     `json:"minutes" validate:"gte=0,lt=60"`
	Seconds    float64 `json:"seconds" validate:"gte=0,lt=60"`
	Hemisphere string  `json:"hemisphere" validate:"required,oneof=N S n s"`
}

type lonDMSRequest struct {
	Degrees    int     `json:"degrees" validate:"gte=0,lte=180"`
	Minutes    int     `json:"minutes" validate:"gte=0,lt=60"`
	Seconds    float64 `json:"seconds" validate:"gte=0,lt=60"`
	Hemisphere string  `json:"hemisphere" validate:"required,oneof=E W e w"`
}

type coverageRequest struct {
	West  lonDMSRequest `json:"west"`
	East  lonDMSRequest `json:"east"`
	South latDMSRequest `json:"south"`
	North latDMSRequest `json:"north"`
}

func (r coverageRequest) bounds() domain.BoundsDMS {
	lon := func(d lonDMSRequest) domain.DMS {
		return domain.DMS{Degrees: d.Degrees, Minutes: d.Minutes, Seconds: d.Seconds, Hemisphere: domain.Hemisphere(strings.ToUpper(d.Hemisphere))}
	}
	lat := func(d latDMSRequest) domain.DMS {
		return domain.DMS{Degrees: d.Degrees, Minutes: d.Minutes, Seconds: d.Seconds, Hemisphere: domain.Hemisphere(strings.ToUpper(d.Hemisphere))}
	}
	return domain.BoundsDMS{West: lon(r.West), East: lon(r.East), South: lat(r.South), North: lat(r.North)}
}

// DecimalResponse is a single decimal-degree value.
type DecimalResponse struct {
	Value float64 `json:"value"`
}

// DMSResponse is a DMS value with its display form.
type DMSResponse struct {
	domain.DMS
	Text string `json:"text"`
}

// ValidationResponse reports the drawing guard verdict for a box.
type ValidationResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// CoverageResponse is a cruise coverage converted to decimal bounds.
type CoverageResponse struct {
	Bounds domain.BoundingBox `json:"bounds"`
	Issues []string           `json:"issues"`
	Valid  bool               `json:"valid"`
}

// PlaceResponse is a place with its extent as drawn on the map.
type PlaceResponse struct {
	domain.Place
	Projected domain.ProjectedBoundingBox `json:"projected"`
	Ring      []domain.ProjectedPoint     `json:"ring"`
}

func newPlaceResponse(deps *Dependencies, p *domain.Place) PlaceResponse {
	projected := deps.Conversions.BoxForward(geospatial.ClipToWorld(p.Bounds))
	return PlaceResponse{Place: *p, Projected: projected, Ring: geospatial.BoxRing(projected)}
}

// ---- Conversion ----

// ToDecimalHandler converts degrees, minutes and seconds to decimal
// degrees, signed by the optional hemisphere.
func ToDecimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vals, bad := queryFloats(c, "degrees", "minutes", "seconds")
		if bad != "" {
			return errBadRequest(c, bad+" must be a number")
		}

		var h domain.Hemisphere
		if raw := c.Query("hemisphere"); raw != "" {
			parsed, err := geospatial.ParseHemisphere(raw)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			h = parsed
		}

		v := deps.Conversions.ToDecimal(vals[0], vals[1], vals[2], h)
		if !finite(v) {
			return errBadRequest(c, "result is not a finite number")
		}
		return c.JSON(DecimalResponse{Value: v})
	}
}

// ToDMSHandler splits a decimal value into DMS with the hemisphere taken
// from its sign.
func ToDMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vals, bad := queryFloats(c, "value")
		if bad != "" || !finite(vals...) {
			return errBadRequest(c, "value must be a finite number")
		}
		axis, err := geospatial.ParseAxis(c.Query("axis"))
		if err != nil {
			return errBadRequest(c, "axis must be lat or lon")
		}

		d := deps.Conversions.ToDMS(vals[0], axis)
		return c.JSON(DMSResponse{DMS: d, Text: d.String()})
	}
}

// ---- Projection ----

// ForwardHandler projects a lon/lat point to spherical-Mercator meters.
func ForwardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vals, bad := queryFloats(c, "lon", "lat")
		if bad != "" {
			return errBadRequest(c, bad+" must be a number")
		}

		p := deps.Conversions.Forward(vals[0], vals[1])
		if !finite(p.X, p.Y) {
			return errBadRequest(c, "projection is not finite for this latitude")
		}
		return c.JSON(p)
	}
}

// InverseHandler converts spherical-Mercator meters back to lon/lat.
func InverseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vals, bad := queryFloats(c, "x", "y")
		if bad != "" {
			return errBadRequest(c, bad+" must be a number")
		}

		p := deps.Conversions.Inverse(vals[0], vals[1])
		if !finite(p.Lat, p.Lon) {
			return errBadRequest(c, "x and y must be finite")
		}
		return c.JSON(p)
	}
}

// BoxForwardHandler projects a lon/lat box corner by corner.
func BoxForwardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req boxRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}

		p := deps.Conversions.BoxForward(req.box())
		if !p.IsFinite() {
			return errBadRequest(c, "projection is not finite for this box")
		}
		return c.JSON(p)
	}
}

// BoxInverseHandler converts a projected box back to lon/lat.
func BoxInverseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req projectedBoxRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}

		b := deps.Conversions.BoxInverse(req.box())
		if !finite(b.West, b.South, b.East, b.North) {
			return errBadRequest(c, "box must be finite")
		}
		return c.JSON(b)
	}
}

// ValidateBoxHandler applies the drawing guard. Missing or malformed
// numbers count as NaN, so the answer is always a verdict rather than an
// error.
func ValidateBoxHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		west, south := lenientFloat(c, "west"), lenientFloat(c, "south")
		east, north := lenientFloat(c, "east"), lenientFloat(c, "north")

		reason := geospatial.InvalidReason(west, south, east, north)
		return c.JSON(ValidationResponse{Valid: reason == "", Reason: reason})
	}
}

// ---- Regions ----

// DrawRegionHandler validates a search box, builds its map geometry and
// publishes it. Boxes failing the guard get a 422.
func DrawRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req regionRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}

		b := req.box()
		region, ok := deps.Regions.Draw(c.UserContext(), b, req.Source)
		if !ok {
			return errInvalidBox(c, deps.Regions.RejectReason(b))
		}
		return c.Status(fiber.StatusCreated).JSON(region)
	}
}

// PolygonHandler converts a drawn polygon to lon/lat vertices and bounds.
func PolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req polygonRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}

		points := make([]domain.ProjectedPoint, len(req.Points))
		for i, p := range req.Points {
			points[i] = domain.ProjectedPoint{X: *p.X, Y: *p.Y}
		}

		area, err := deps.Regions.FromPolygon(points)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(area)
	}
}

// RecentRegionsHandler lists the regions most recently seen on the event
// stream, newest first.
func RecentRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		regions := []domain.SearchRegion{}
		if deps.Feed != nil {
			regions = deps.Feed.Recent(limit)
		}
		return c.JSON(regions)
	}
}

// ---- Coverage ----

// CoverageHandler converts DMS cruise edges to decimal bounds and lists
// the fields breaking the coverage rules.
func CoverageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req coverageRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}

		bounds, issues := deps.Regions.Coverage(req.bounds())
		return c.JSON(CoverageResponse{Bounds: bounds, Issues: issues, Valid: len(issues) == 0})
	}
}

// CoverageDMSHandler splits decimal bounds into DMS edges.
func CoverageDMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vals, bad := queryFloats(c, "west", "south", "east", "north")
		if bad != "" || !finite(vals...) {
			return errBadRequest(c, "west, south, east and north must be finite numbers")
		}

		b := domain.BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
		return c.JSON(deps.Conversions.BoundsToDMS(b))
	}
}

// ---- Places ----

// ListPlacesHandler returns the gazetteer, paginated.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Places.List(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(paginate(c, places, 100, 500))
	}
}

// SearchPlacesHandler performs fuzzy search on place names.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		places, err := deps.Places.Search(c.UserContext(), query, c.QueryInt("limit", 20))
		if err != nil {
			return errFromService(c, err)
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}

// GetPlaceHandler returns a place with its projected extent.
func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return errBadRequest(c, "malformed place name")
		}

		place, err := deps.Places.Lookup(c.UserContext(), name)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(newPlaceResponse(deps, place))
	}
}

// LegacyPlaceHandler returns place bounds as "north west south east"
// plain text for clients of the old lookup endpoint.
func LegacyPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text, err := deps.Places.LookupLegacy(c.UserContext(), c.Query("name"))
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(text)
	}
}

// GeocodeHandler resolves a free-form address to a place.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := c.Query("address")
		if address == "" {
			return errBadRequest(c, "address query parameter is required")
		}

		place, err := deps.Places.Geocode(c.UserContext(), address)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(newPlaceResponse(deps, place))
	}
}
