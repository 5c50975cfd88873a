// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation on the X-API-Key header.
//   - rayid: a request id (RayID) per request, stored in the context and echoed
//     in the X-Ray-ID response header for tracing.
//
// RayID is registered first so that every later log line can carry the id.
package middleware
