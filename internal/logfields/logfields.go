package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRequestID  = "request_id"
	KeyFormat     = "format"
	KeyURIPath    = "uri_path"
	KeyPage       = "page"
	KeyKind       = "kind"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPlugin     = "plugin"
	KeyTemplate   = "template"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyMethod     = "method"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyAddress    = "address"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Format(f string) slog.Attr        { return slog.String(KeyFormat, f) }
func URIPath(p string) slog.Attr       { return slog.String(KeyURIPath, p) }
func Page(n int) slog.Attr             { return slog.Int(KeyPage, n) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func Address(a string) slog.Attr       { return slog.String(KeyAddress, a) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
