// Package authorization decides which staff members may run election
// administration.
//
// Layering:
// - domain: role catalog, permission evaluation, errors
// - application: commands/queries using explicit ports
// - ports: persistence and cache boundaries
// - adapters: HTTP handler, memory and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// The election engine never imports this package; the HTTP server consults
// CheckPermission before dispatching an admin route.
package authorization
