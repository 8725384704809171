package http

import (
	"github.com/nats-io/nats.go"

	"github.com/socat/omegeo/internal/adapters/postgres"
	"github.com/socat/omegeo/internal/adapters/valkey"
	"github.com/socat/omegeo/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. Only the
// services are required; the infrastructure handles are used by the
// readiness check and the WebSocket relay and may be nil.
type Dependencies struct {
	Conversions *usecases.ConversionService
	Regions     *usecases.RegionService
	Places      *usecases.PlaceService
	Feed        *usecases.RegionFeed
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	Version     string
}
