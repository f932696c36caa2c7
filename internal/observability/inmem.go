package observability

import "sync"

// Event is one recorded observation.
type Event struct {
	Kind   string  `json:"kind"`
	Source string  `json:"source,omitempty"`
	Method string  `json:"method,omitempty"`
	Route  string  `json:"route,omitempty"`
	Status int     `json:"status,omitempty"`
	OK     bool    `json:"ok,omitempty"`
	DurMs  float64 `json:"dur_ms"`
}

type Totals struct {
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`
	AuthCalls   int `json:"auth_calls"`
	AuthFails   int `json:"auth_fails"`
}

// Inmem keeps the last max events and running totals.
type Inmem struct {
	mu     sync.Mutex
	last   []Event
	max    int
	totals Totals
}

func NewInmem(max int) *Inmem {
	if max < 1 {
		max = 1
	}
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, e)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveFetch(source Source, durMs float64) {
	m.push(Event{Kind: "fetch", Source: string(source), DurMs: durMs})
}

func (m *Inmem) ObserveAuth(ok bool, durMs float64) {
	m.mu.Lock()
	m.totals.AuthCalls++
	if !ok {
		m.totals.AuthFails++
	}
	m.mu.Unlock()
	m.push(Event{Kind: "auth", OK: ok, DurMs: durMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(Event{Kind: "http", Method: method, Route: route, Status: status, DurMs: durMs})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.CacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.CacheMisses++
	m.mu.Unlock()
}

func (m *Inmem) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// Events returns a copy of the retained events, oldest first.
func (m *Inmem) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.last))
	copy(out, m.last)
	return out
}
