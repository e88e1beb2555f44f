// Package catalog provides an HTTP client for the phone catalog service.
//
// # Overview
//
// The catalog service exposes phone records under /api/v1/phones. Every
// endpoint answers with the same envelope:
//
//	{"success": true, "message": "...", "data": ...}
//
// The success flag is authoritative and is checked independently of the HTTP
// status code. The list endpoint may return data either as a flat array or as
// a paginated object whose "content" field holds the array; every other
// endpoint must return a flat array.
//
// # Files
//
//   - client.go: HTTP transport, base URL handling, request headers
//   - query.go: Query and Mode, and the URL each query maps to
//   - envelope.go: envelope decoding and record validation
//   - errors.go: failure taxonomy
//   - types.go: wire types mirroring the service schema
//
// # Client Usage
//
//	client, err := catalog.NewClient("127.0.0.1:8080", 10*time.Second)
//	if err != nil {
//		return err
//	}
//	listing, err := client.Fetch(ctx, catalog.ListQuery(0, catalog.DefaultPageSize))
//	switch {
//	case errors.Is(err, catalog.ErrTransport):
//		// no response received
//	case errors.Is(err, catalog.ErrProtocol):
//		// response was not a valid envelope
//	case errors.Is(err, catalog.ErrApplication):
//		// envelope reported success=false
//	}
//
// # API Endpoints
//
//	GET /api/v1/phones?page={n}&size={m}
//	GET /api/v1/phones/search?query={text}
//	GET /api/v1/phones/brand/{name}
//	GET /api/v1/phones/type/{tag}
//	GET /api/v1/phones/price-range?minPrice={a}&maxPrice={b}
//
// Each request carries an X-Request-ID header; the same ID is returned in
// Listing.RequestID or Error.RequestID so log lines can be correlated with
// service logs.
//
// # Validation
//
// Records must have a non-empty, unique id and no negative numeric fields.
// A nil usageTypes list is normalized to an empty slice. A payload that breaks
// these rules is rejected as a whole with ErrProtocol.
package catalog
