package observability

import (
	"fmt"
	"net/http"
	"strings"
)

// Timing is one Server-Timing metric.
type Timing struct {
	Name  string
	DurMs float64
	Desc  string
}

// String renders the header value, or "" when there is nothing to report.
func (t Timing) String() string {
	parts := []string{t.Name}
	if t.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("dur=%.2f", t.DurMs))
	}
	if t.Desc != "" {
		parts = append(parts, fmt.Sprintf("desc=%q", t.Desc))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, ";")
}

func AppendServerTiming(w http.ResponseWriter, t Timing) {
	if v := t.String(); v != "" {
		w.Header().Add("Server-Timing", v)
	}
}

func SetIfPos(w http.ResponseWriter, key string, ms float64) {
	if ms > 0 {
		w.Header().Set(key, fmt.Sprintf("%.2f", ms))
	}
}
