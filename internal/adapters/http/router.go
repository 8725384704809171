package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/socat/omegeo/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(TracingMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	route := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	// Pure conversions
	v1.Get("/convert/to-decimal", ToDecimalHandler(deps))
	v1.Get("/convert/to-dms", ToDMSHandler(deps))
	v1.Get("/project/forward", ForwardHandler(deps))
	v1.Get("/project/inverse", InverseHandler(deps))
	v1.Post("/boxes/forward", BoxForwardHandler(deps))
	v1.Post("/boxes/inverse", BoxInverseHandler(deps))
	v1.Get("/boxes/validate", ValidateBoxHandler(deps))
	v1.Post("/coverage", CoverageHandler(deps))
	v1.Get("/coverage/dms", CoverageDMSHandler(deps))

	// Search regions
	v1.Post("/regions", route(DrawRegionHandler(deps)))
	v1.Post("/regions/polygon", PolygonHandler(deps))
	v1.Get("/regions/recent", RecentRegionsHandler(deps))

	// Gazetteer and geocoding
	v1.Get("/places", route(ListPlacesHandler(deps)))
	v1.Get("/places/search", route(SearchPlacesHandler(deps)))
	v1.Get("/places/:name", route(GetPlaceHandler(deps)))
	v1.Get("/place", route(LegacyPlaceHandler(deps)))
	v1.Get("/geocode", route(GeocodeHandler(deps)))

	app.Post("/graphql", route(GraphQLHandler(deps)))

	SetupDocs(app, "api/openapi.yaml")

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
