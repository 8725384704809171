package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/socat/omegeo/internal/adapters/http"
	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/ports"
	"github.com/socat/omegeo/internal/core/usecases"
)

// ---- Mocks ----

type mockPlaceRepo struct {
	getByNameFn func(ctx context.Context, name string) (*domain.Place, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	listFn      func(ctx context.Context) ([]domain.Place, error)
}

func (m *mockPlaceRepo) Upsert(ctx context.Context, p *domain.Place) error        { return nil }
func (m *mockPlaceRepo) UpsertBatch(ctx context.Context, p []domain.Place) error { return nil }
func (m *mockPlaceRepo) GetByName(ctx context.Context, name string) (*domain.Place, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, domain.ErrNotFound
}
func (m *mockPlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}
func (m *mockPlaceRepo) List(ctx context.Context) ([]domain.Place, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockGeocoder struct {
	fn func(ctx context.Context, address string) (*domain.GeocodeResult, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if m.fn != nil {
		return m.fn(ctx, address)
	}
	return nil, domain.ErrNotFound
}

type mockPublisher struct {
	published []*domain.SearchRegion
}

func (m *mockPublisher) PublishRegion(ctx context.Context, r *domain.SearchRegion) error {
	m.published = append(m.published, r)
	return nil
}

// ---- Helpers ----

var biscay = domain.Place{
	ID:     "p-1",
	Name:   "Bay Of Biscay",
	Slug:   "bay-of-biscay",
	Source: "gazetteer",
	Bounds: domain.BoundingBox{West: -10, South: 43, East: -1, North: 48},
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(repo *mockPlaceRepo, geo *mockGeocoder, pub *mockPublisher) *handler.Dependencies {
	if repo == nil {
		repo = &mockPlaceRepo{}
	}
	var geocoder ports.Geocoder
	if geo != nil {
		geocoder = geo
	}
	var events ports.EventPublisher
	if pub != nil {
		events = pub
	}
	return &handler.Dependencies{
		Conversions: usecases.NewConversionService(),
		Regions:     usecases.NewRegionService(events),
		Places:      usecases.NewPlaceService(repo, geocoder, nil, 50000),
		Feed:        usecases.NewRegionFeed(10),
	}
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte, map[string]string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, data, headers
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

// ---- Conversion ----

func TestToDecimal(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	tests := []struct {
		query string
		want  float64
	}{
		{"degrees=45&minutes=30&seconds=0", 45.5},
		{"degrees=45&minutes=30&seconds=0&hemisphere=S", -45.5},
		{"degrees=0&minutes=0&seconds=0&hemisphere=w", 0},
		{"degrees=3&minutes=0&seconds=36&hemisphere=E", 3.01},
	}
	for _, tt := range tests {
		status, body, _ := do(t, app, "GET", "/v1/convert/to-decimal?"+tt.query, "")
		if status != 200 {
			t.Fatalf("%s: expected 200, got %d: %s", tt.query, status, body)
		}
		var got handler.DecimalResponse
		decode(t, body, &got)
		if math.Abs(got.Value-tt.want) > 1e-12 {
			t.Errorf("%s: got %v, want %v", tt.query, got.Value, tt.want)
		}
	}
}

func TestToDecimal_BadInput(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	for _, q := range []string{
		"minutes=30&seconds=0",
		"degrees=x&minutes=30&seconds=0",
		"degrees=1&minutes=2&seconds=3&hemisphere=Q",
	} {
		status, body, _ := do(t, app, "GET", "/v1/convert/to-decimal?"+q, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", q, status)
		}
		var apiErr handler.APIError
		decode(t, body, &apiErr)
		if apiErr.Code != "bad_request" {
			t.Errorf("%s: unexpected code %q", q, apiErr.Code)
		}
	}
}

func TestToDMS(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/convert/to-dms?value=-3.5&axis=lon", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var got handler.DMSResponse
	decode(t, body, &got)
	if got.Degrees != 3 || got.Minutes != 30 || got.Seconds != 0 || got.Hemisphere != "W" {
		t.Errorf("unexpected DMS %+v", got.DMS)
	}
	if got.Text == "" {
		t.Error("expected display text")
	}

	status, _, _ = do(t, app, "GET", "/v1/convert/to-dms?value=1&axis=up", "")
	if status != 400 {
		t.Errorf("expected 400 for unknown axis, got %d", status)
	}
}

// ---- Projection ----

func TestForward(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/project/forward?lon=180&lat=0", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var p domain.ProjectedPoint
	decode(t, body, &p)
	if math.Abs(p.X-20037508.342789244) > 1e-6 || math.Abs(p.Y) > 1e-6 {
		t.Errorf("unexpected point %+v", p)
	}
}

func TestForward_SouthPoleRejected(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, _, _ := do(t, app, "GET", "/v1/project/forward?lon=0&lat=-90", "")
	if status != 400 {
		t.Errorf("expected 400 for non-finite projection, got %d", status)
	}
	status, _, _ = do(t, app, "GET", "/v1/project/forward?lon=0", "")
	if status != 400 {
		t.Errorf("expected 400 for missing lat, got %d", status)
	}
}

func TestInverse(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/project/inverse?x=-326722.71&y=5352089.19", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var p domain.GeoPoint
	decode(t, body, &p)
	if math.Abs(p.Lon-(-2.935)) > 1e-5 || math.Abs(p.Lat-43.263) > 1e-5 {
		t.Errorf("unexpected point %+v", p)
	}
}

func TestBoxForwardInverse(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "POST", "/v1/boxes/forward", `{"west":-10,"south":-5,"east":10,"north":5}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	status, body, _ = do(t, app, "POST", "/v1/boxes/inverse", string(body))
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var b domain.BoundingBox
	decode(t, body, &b)
	if math.Abs(b.West+10) > 1e-6 || math.Abs(b.North-5) > 1e-6 {
		t.Errorf("round trip drifted: %+v", b)
	}
}

func TestBoxForward_ValidationErrors(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "POST", "/v1/boxes/forward", `{"west":-10,"south":0,"east":10}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "validation_failed" {
		t.Errorf("unexpected code %q", apiErr.Code)
	}
	if _, ok := apiErr.Fields["north"]; !ok {
		t.Errorf("expected a north field error, got %v", apiErr.Fields)
	}
	if _, ok := apiErr.Fields["south"]; ok {
		t.Error("zero south is present and must not be reported")
	}

	status, _, _ = do(t, app, "POST", "/v1/boxes/forward", `{"west":`)
	if status != 400 {
		t.Errorf("expected 400 for malformed JSON, got %d", status)
	}
}

func TestValidateBox(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	tests := []struct {
		query  string
		valid  bool
		reason string
	}{
		{"west=-10&south=-5&east=10&north=5", true, ""},
		{"west=10&south=-5&east=-10&north=5", false, "width"},
		{"west=170&south=-5&east=-170&north=5", false, "width"},
		{"west=-10&south=5&east=10&north=5", false, "height"},
		{"west=abc&south=-5&east=10&north=5", false, "nan"},
		{"south=-5&east=10&north=5", false, "nan"},
		{"west=-200&south=-5&east=10&north=5", true, ""},
	}
	for _, tt := range tests {
		status, body, _ := do(t, app, "GET", "/v1/boxes/validate?"+tt.query, "")
		if status != 200 {
			t.Fatalf("%s: expected 200, got %d", tt.query, status)
		}
		var got handler.ValidationResponse
		decode(t, body, &got)
		if got.Valid != tt.valid || got.Reason != tt.reason {
			t.Errorf("%s: got %+v, want valid=%v reason=%q", tt.query, got, tt.valid, tt.reason)
		}
	}
}

// ---- Regions ----

func TestDrawRegion(t *testing.T) {
	pub := &mockPublisher{}
	app := setupApp(makeDeps(nil, nil, pub))

	status, body, headers := do(t, app, "POST", "/v1/regions", `{"west":-10,"south":-5,"east":10,"north":5,"source":"form"}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var region domain.SearchRegion
	decode(t, body, &region)
	if region.ID == "" || region.Source != "form" {
		t.Errorf("unexpected region %+v", region)
	}
	if len(region.Ring) != 5 {
		t.Errorf("expected closed ring of 5 points, got %d", len(region.Ring))
	}
	if region.Complete != "5,-10,-5,10" {
		t.Errorf("unexpected complete string %q", region.Complete)
	}
	if len(pub.published) != 1 || pub.published[0].ID != region.ID {
		t.Errorf("expected the region to be published once, got %d", len(pub.published))
	}
	if headers["Cache-Control"] != "" {
		t.Errorf("POST responses get no Cache-Control, got %q", headers["Cache-Control"])
	}
}

func TestDrawRegion_InvalidBox(t *testing.T) {
	pub := &mockPublisher{}
	app := setupApp(makeDeps(nil, nil, pub))

	status, body, _ := do(t, app, "POST", "/v1/regions", `{"west":170,"south":-5,"east":-170,"north":5}`)
	if status != 422 {
		t.Fatalf("expected 422, got %d: %s", status, body)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "invalid_box" || !strings.Contains(apiErr.Message, "width") {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if len(pub.published) != 0 {
		t.Error("invalid boxes must not be published")
	}

	status, _, _ = do(t, app, "POST", "/v1/regions", `{"west":-1,"south":-1,"east":1,"north":1,"source":"radar"}`)
	if status != 400 {
		t.Errorf("expected 400 for unknown source, got %d", status)
	}
}

func TestDrawRegion_NonFiniteProjection(t *testing.T) {
	pub := &mockPublisher{}
	app := setupApp(makeDeps(nil, nil, pub))

	status, body, _ := do(t, app, "POST", "/v1/regions", `{"west":-1e307,"south":-5,"east":10,"north":5}`)
	if status != 422 {
		t.Fatalf("expected 422, got %d: %s", status, body)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "invalid_box" || !strings.Contains(apiErr.Message, "range") {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if len(pub.published) != 0 {
		t.Error("a box with a non-finite projection must not be published")
	}
}

func TestPolygon(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "POST", "/v1/regions/polygon",
		`{"points":[{"x":0,"y":0},{"x":1113194.9079327357,"y":0},{"x":1113194.9079327357,"y":1118889.9748579594}]}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var area domain.PolygonArea
	decode(t, body, &area)
	if len(area.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(area.Vertices))
	}
	if math.Abs(area.Bounds.East-10) > 1e-6 || math.Abs(area.Bounds.North-10) > 1e-6 {
		t.Errorf("unexpected bounds %+v", area.Bounds)
	}

	status, _, _ = do(t, app, "POST", "/v1/regions/polygon", `{"points":[{"x":0,"y":0},{"x":1,"y":1}]}`)
	if status != 400 {
		t.Errorf("expected 400 for two vertices, got %d", status)
	}
}

func TestRecentRegions(t *testing.T) {
	deps := makeDeps(nil, nil, nil)
	app := setupApp(deps)

	status, body, headers := do(t, app, "GET", "/v1/regions/recent", "")
	if status != 200 || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty list, got %d %s", status, body)
	}
	if headers["Cache-Control"] != "no-store" {
		t.Errorf("expected no-store, got %q", headers["Cache-Control"])
	}

	_ = deps.Feed.Record(context.Background(), &domain.SearchRegion{ID: "a"})
	_ = deps.Feed.Record(context.Background(), &domain.SearchRegion{ID: "b"})

	_, body, _ = do(t, app, "GET", "/v1/regions/recent?limit=1", "")
	var regions []domain.SearchRegion
	decode(t, body, &regions)
	if len(regions) != 1 || regions[0].ID != "b" {
		t.Errorf("expected newest region only, got %+v", regions)
	}
}

// ---- Coverage ----

func TestCoverage(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	body := `{
		"west":  {"degrees":10,"minutes":30,"seconds":0,"hemisphere":"W"},
		"east":  {"degrees":10,"minutes":0,"seconds":0,"hemisphere":"E"},
		"south": {"degrees":5,"minutes":0,"seconds":0,"hemisphere":"S"},
		"north": {"degrees":5,"minutes":0,"seconds":0,"hemisphere":"n"}
	}`
	status, data, _ := do(t, app, "POST", "/v1/coverage", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, data)
	}
	var got handler.CoverageResponse
	decode(t, data, &got)
	if !got.Valid || len(got.Issues) != 0 {
		t.Errorf("expected valid coverage, got %+v", got)
	}
	want := domain.BoundingBox{West: -10.5, South: -5, East: 10, North: 5}
	if got.Bounds != want {
		t.Errorf("got bounds %+v, want %+v", got.Bounds, want)
	}
}

func TestCoverage_Issues(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	body := `{
		"west":  {"degrees":10,"minutes":0,"seconds":0,"hemisphere":"W"},
		"east":  {"degrees":10,"minutes":0,"seconds":0,"hemisphere":"E"},
		"south": {"degrees":5,"minutes":0,"seconds":0,"hemisphere":"N"},
		"north": {"degrees":5,"minutes":0,"seconds":0,"hemisphere":"S"}
	}`
	_, data, _ := do(t, app, "POST", "/v1/coverage", body)
	var got handler.CoverageResponse
	decode(t, data, &got)
	if got.Valid || len(got.Issues) != 2 || got.Issues[0] != "northernLatitude" || got.Issues[1] != "southernLatitude" {
		t.Errorf("expected both latitude fields flagged, got %+v", got)
	}

	status, data, _ := do(t, app, "POST", "/v1/coverage", strings.Replace(body, `"hemisphere":"W"`, `"hemisphere":"N"`, 1))
	if status != 400 {
		t.Fatalf("expected 400 for a latitude hemisphere on a longitude edge, got %d", status)
	}
	var apiErr handler.APIError
	decode(t, data, &apiErr)
	if _, ok := apiErr.Fields["hemisphere"]; !ok {
		t.Errorf("expected a hemisphere field error, got %v", apiErr.Fields)
	}
}

func TestCoverageDMS(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/coverage/dms?west=-10.5&south=-5&east=10&north=5.25", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var got domain.BoundsDMS
	decode(t, body, &got)
	if got.West.Degrees != 10 || got.West.Minutes != 30 || got.West.Hemisphere != "W" {
		t.Errorf("unexpected west %+v", got.West)
	}
	if got.North.Degrees != 5 || got.North.Minutes != 15 || got.North.Hemisphere != "N" {
		t.Errorf("unexpected north %+v", got.North)
	}
}

// ---- Places ----

func TestListPlaces_Pagination(t *testing.T) {
	repo := &mockPlaceRepo{
		listFn: func(ctx context.Context) ([]domain.Place, error) {
			return []domain.Place{biscay, biscay, biscay}, nil
		},
	}
	app := setupApp(makeDeps(repo, nil, nil))

	status, body, headers := do(t, app, "GET", "/v1/places?limit=2", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result struct {
		Data       []domain.Place     `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	decode(t, body, &result)
	if len(result.Data) != 2 || result.Pagination.Total != 3 {
		t.Errorf("unexpected page %+v", result.Pagination)
	}
	if !strings.Contains(headers["Link"], `offset=2`) || !strings.Contains(headers["Link"], `rel="next"`) {
		t.Errorf("unexpected Link header %q", headers["Link"])
	}
}

func TestListPlaces_Error(t *testing.T) {
	repo := &mockPlaceRepo{
		listFn: func(ctx context.Context) ([]domain.Place, error) {
			return nil, errors.New("connection refused")
		},
	}
	app := setupApp(makeDeps(repo, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/places", "")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(body), "connection refused") {
		t.Error("internal error details must not leak")
	}
}

func TestGetPlace(t *testing.T) {
	var gotName string
	repo := &mockPlaceRepo{
		getByNameFn: func(ctx context.Context, name string) (*domain.Place, error) {
			gotName = name
			p := biscay
			return &p, nil
		},
	}
	app := setupApp(makeDeps(repo, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/places/bay%20of%20BISCAY", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if gotName != "Bay Of Biscay" {
		t.Errorf("expected title-cased name, got %q", gotName)
	}
	var got handler.PlaceResponse
	decode(t, body, &got)
	if got.Slug != "bay-of-biscay" || len(got.Ring) != 5 {
		t.Errorf("unexpected place %+v", got)
	}
	if got.Projected.West >= got.Projected.East {
		t.Errorf("unexpected projected bounds %+v", got.Projected)
	}
}

func TestGetPlace_NotFound(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/places/atlantis", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("unexpected code %q", apiErr.Code)
	}
}

func TestSearchPlaces(t *testing.T) {
	repo := &mockPlaceRepo{
		searchFn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			if limit != 20 {
				t.Errorf("expected clamped limit 20, got %d", limit)
			}
			return []domain.Place{biscay}, nil
		},
	}
	app := setupApp(makeDeps(repo, nil, nil))

	status, _, _ := do(t, app, "GET", "/v1/places/search?q=bisc&limit=900", "")
	if status != 200 {
		t.Errorf("expected 200, got %d", status)
	}
	status, _, _ = do(t, app, "GET", "/v1/places/search", "")
	if status != 400 {
		t.Errorf("expected 400 without q, got %d", status)
	}
}

func TestLegacyPlace(t *testing.T) {
	repo := &mockPlaceRepo{
		getByNameFn: func(ctx context.Context, name string) (*domain.Place, error) {
			p := biscay
			return &p, nil
		},
	}
	app := setupApp(makeDeps(repo, nil, nil))

	status, body, headers := do(t, app, "GET", "/v1/place?name=bay+of+biscay", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if string(body) != "48 -10 43 -1" {
		t.Errorf("unexpected text %q", body)
	}
	if headers["Deprecation"] != "true" || headers["Sunset"] == "" {
		t.Errorf("expected deprecation headers, got %v", headers)
	}

	status, _, _ = do(t, app, "GET", "/v1/place?name=", "")
	if status != 400 {
		t.Errorf("expected 400 for empty name, got %d", status)
	}
}

func TestGeocode(t *testing.T) {
	geo := &mockGeocoder{
		fn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return &domain.GeocodeResult{
				Name:  "Bilbao",
				Point: domain.GeoPoint{Lat: 43.263, Lon: -2.935},
				Bounds: domain.BoundingBox{
					West: math.NaN(), South: math.NaN(), East: math.NaN(), North: math.NaN(),
				},
			}, nil
		},
	}
	app := setupApp(makeDeps(nil, geo, nil))

	status, body, _ := do(t, app, "GET", "/v1/geocode?address=Bilbao", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var got handler.PlaceResponse
	decode(t, body, &got)
	if got.Source != usecases.SourceGeocoder || !got.Bounds.Valid() {
		t.Errorf("expected a fallback box from the geocoder, got %+v", got.Place)
	}

	status, _, _ = do(t, app, "GET", "/v1/geocode", "")
	if status != 400 {
		t.Errorf("expected 400 without address, got %d", status)
	}
}

// ---- Cross-cutting ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, body, _ := do(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var h map[string]string
	decode(t, body, &h)
	if h["status"] != "healthy" || h["version"] != "dev" {
		t.Errorf("unexpected health body %v", h)
	}
}

func TestReady_WithoutDatabase(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, _, _ := do(t, app, "GET", "/v1/ready", "")
	if status != 503 {
		t.Errorf("expected 503 without a database, got %d", status)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))
	target := "/v1/convert/to-decimal?degrees=1&minutes=2&seconds=3"

	_, _, headers := do(t, app, "GET", target, "")
	etag := headers["Etag"]
	if etag == "" {
		t.Fatal("expected an ETag")
	}
	if headers["Cache-Control"] != "public, max-age=86400" {
		t.Errorf("unexpected Cache-Control %q", headers["Cache-Control"])
	}

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestGraphQL_Conversions(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	query := `{"query":"{ toDecimal(degrees: 45, minutes: 30, seconds: 0, hemisphere: \"S\") validateBox(west: 170, south: -5, east: -170, north: 5) { valid reason } toDMS(value: -3.5, axis: \"lon\") { degrees minutes hemisphere } }"}`
	status, body, _ := do(t, app, "POST", "/graphql", query)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var result struct {
		Data struct {
			ToDecimal   float64 `json:"toDecimal"`
			ValidateBox struct {
				Valid  bool   `json:"valid"`
				Reason string `json:"reason"`
			} `json:"validateBox"`
			ToDMS struct {
				Degrees    int    `json:"degrees"`
				Minutes    int    `json:"minutes"`
				Hemisphere string `json:"hemisphere"`
			} `json:"toDMS"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	decode(t, body, &result)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if result.Data.ToDecimal != -45.5 {
		t.Errorf("unexpected toDecimal %v", result.Data.ToDecimal)
	}
	if result.Data.ValidateBox.Valid || result.Data.ValidateBox.Reason != "width" {
		t.Errorf("unexpected validateBox %+v", result.Data.ValidateBox)
	}
	if result.Data.ToDMS.Degrees != 3 || result.Data.ToDMS.Minutes != 30 || result.Data.ToDMS.Hemisphere != "W" {
		t.Errorf("unexpected toDMS %+v", result.Data.ToDMS)
	}
}

func TestGraphQL_ForwardSouthPole(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	_, body, _ := do(t, app, "POST", "/graphql", `{"query":"{ forward(lon: 0, lat: -90) { x y } }"}`)
	if !strings.Contains(string(body), "not a finite number") {
		t.Errorf("expected a finiteness error, got %s", body)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps(nil, nil, nil))

	status, _, _ := do(t, app, "GET", "/ws", "")
	if status != fiber.StatusUpgradeRequired {
		t.Errorf("expected 426, got %d", status)
	}
}
