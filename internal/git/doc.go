// Package git keeps a local clone of a blog repository current and exposes
// the committed tree at HEAD. Failures are classified into structured errors
// so transient network problems can be retried by the reloader.
package git
