package timex

import "time"

// compactLayout is the second-resolution layout used to derive ephemeral
// record identifiers, e.g. "20240131154502".
const compactLayout = "20060102150405"

// NowISO returns the current time as an ISO-8601 string. Document timestamps
// are generated at the call site, not server-side, so clock skew between
// client and backend is possible and tolerated.
func NowISO() string {
	return time.Now().Format(time.RFC3339)
}

// NowCompact returns the current time in the second-resolution compact form
// used for session-store record IDs. Two calls within the same second return
// the same value.
func NowCompact() string {
	return time.Now().Format(compactLayout)
}
