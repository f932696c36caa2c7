package observability

// Source tells where a page of sales came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

type Metrics interface {
	ObserveFetch(source Source, durMs float64)
	ObserveAuth(ok bool, durMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveFetch(Source, float64)             {}
func (Noop) ObserveAuth(bool, float64)                {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
