package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the services.
const (
	AttrPlaceName       = attribute.Key("omegeo.place.name")
	AttrGeocodeAddress  = attribute.Key("omegeo.geocode.address")
	AttrGeocodeFallback = attribute.Key("omegeo.geocode.fallback_box")
	AttrRegionID        = attribute.Key("omegeo.region.id")
	AttrRegionSource    = attribute.Key("omegeo.region.source")
)
