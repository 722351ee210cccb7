// Package main hosts the mirror entrypoint.
//
// Architecture overview:
//   - HTTP: internal/api.Server routes "/" to the site index and "/{site}/..." to the site pages. A resolver
//     middleware looks the site up in the immutable site.Registry and answers 404 for unknown names before any
//     handler runs. Every response carries "Cache-Control: public, max-age=3600".
//   - Data: each site is a set of three tables ({site}_posts, {site}_users, {site}_comments) in Postgres (pgx pool)
//     or in a SQLite dump file. Sites are discovered from the schema at startup unless database.sites pins them.
//     All SQL is parameterized; LIKE patterns escape their metacharacters.
//   - Pages: html/template views embedded in the binary; snippets come from goquery's text extraction; the article
//     of the day is picked from posts scoring above 25 with a PRNG seeded by hashing the site and calendar date.
//   - Plumbing: Viper config (MIRROR_* env, optional file), zap logging, Prometheus metrics on /metrics with
//     per-site store instrumentation, optional /static assets from a local directory or a GCS bucket.
//
// Quick checklist:
//   - mirror serve --demo runs against built-in sample data.
//   - mirror serve --config mirror.yaml with database.driver and database.dsn set serves a real dump.
//   - mirror sites prints the site names the database holds.
package main
