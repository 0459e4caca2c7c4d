package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPostID     = "post_id"
	KeyTag        = "tag"
	KeySource     = "source"
	KeyPath       = "path"
	KeySnapshotID = "snapshot_id"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyURL        = "url"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PostID(id string) slog.Attr      { return slog.String(KeyPostID, id) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func SnapshotID(id string) slog.Attr  { return slog.String(KeySnapshotID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
