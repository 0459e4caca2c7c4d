// Package server runs the admin HTTP listener used by `postindex watch`:
// liveness, readiness (a snapshot is loaded) and Prometheus metrics.
package server
