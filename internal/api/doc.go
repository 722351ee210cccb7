// Package api hosts the HTTP server, middleware, and page handlers of the
// mirror. Notable routes:
//   - GET / lists the mirrored sites.
//   - GET /{site} plus /search, /tag/{tag}, /user/{id} and /post/{id} render
//     the site's pages; unknown sites answer 404.
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /static/* for stylesheets and images when an asset source is set.
package api
