// Package routesapi serves and consumes the route listing used to label
// navigation links.
//
// The server side is a chi router exposing:
//
//	GET /api/routes   {"routes":[{"path","label","type"}],"timestamp"}
//	GET /api/stats    {"uptime","requests","connections","responseTime"}
//	GET /api/*        {"message","timestamp"}
//	GET /metrics      Prometheus exposition
//
// Every request is counted in Prometheus metrics and traced with an
// OpenTelemetry span from the global tracer provider.
//
// The client side fetches /api/routes and validates the payload. A failed
// request yields E120 and a malformed payload E121; callers such as the
// navigation bar keep their last known list in either case.
package routesapi
