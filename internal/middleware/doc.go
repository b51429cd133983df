// Package middleware provides HTTP middleware for the gallery API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with path normalization
//   - Response compression (gzip) for JSON payloads
package middleware
