// Package notify announces new post index snapshots to other processes.
//
// A Publisher receives an Event each time the watch loop swaps in a snapshot
// whose content changed. NATSPublisher sends the event as JSON on a core NATS
// subject; Noop discards it when notifications are not configured.
package notify
