// Package metrics provides the observability hooks for content loading,
// snapshot swaps and index queries.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	loader := content.NewLoader(src) // NoopRecorder
//	loader := content.NewLoader(src, content.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The Prometheus implementation registers on the registry it is given;
// HTTPHandler exposes that registry for the admin listener.
package metrics
