package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/observability"
	"github.com/TemirB/sales-dashboard/internal/present"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type Dashboard interface {
	View() dashboard.View
	UpdateFilter(ctx context.Context, patch domain.FilterPatch) error
	ToggleSort(ctx context.Context, field domain.SortField) error
	Refresh(ctx context.Context) error
	GoNext(ctx context.Context) error
	GoPrevious(ctx context.Context) error
	DismissError()
}

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"sortMark": sortMark,
}).ParseFS(templateFS, "templates/dashboard.html"))

type Server struct {
	dash      Dashboard
	formatter *present.Formatter
	router    chi.Router
	logger    *zap.Logger
	metrics   observability.Metrics
}

func New(dash Dashboard, formatter *present.Formatter, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		dash:      dash,
		formatter: formatter,
		router:    chi.NewRouter(),
		logger:    logger,
		metrics:   metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		AccessLog(s.logger),
		middleware.Recoverer,
		ServerTimingApp(s.metrics),
	)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/", s.page)
	s.router.Post("/filters", s.form(func(r *http.Request) error {
		return s.dash.UpdateFilter(r.Context(), patchFromForm(r))
	}))
	s.router.Post("/sort/{field}", s.form(func(r *http.Request) error {
		field, err := domain.ParseSortField(chi.URLParam(r, "field"))
		if err != nil {
			return err
		}
		return s.dash.ToggleSort(r.Context(), field)
	}))
	s.router.Post("/page/next", s.form(func(r *http.Request) error { return s.dash.GoNext(r.Context()) }))
	s.router.Post("/page/prev", s.form(func(r *http.Request) error { return s.dash.GoPrevious(r.Context()) }))
	s.router.Post("/refresh", s.form(func(r *http.Request) error { return s.dash.Refresh(r.Context()) }))
	s.router.Post("/error/dismiss", s.form(func(*http.Request) error {
		s.dash.DismissError()
		return nil
	}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", s.apiView)
		r.Post("/filters", s.apiFilters)
		r.Post("/sort/{field}", s.apiSort)
		r.Post("/page/next", s.api(func(r *http.Request) error { return s.dash.GoNext(r.Context()) }))
		r.Post("/page/prev", s.api(func(r *http.Request) error { return s.dash.GoPrevious(r.Context()) }))
		r.Post("/refresh", s.api(func(r *http.Request) error { return s.dash.Refresh(r.Context()) }))
		r.Delete("/error", s.api(func(*http.Request) error {
			s.dash.DismissError()
			return nil
		}))
	})
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	p := s.build(w)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, p); err != nil {
		s.logger.Error("Can't render dashboard page", zap.Error(err))
	}
}

// form runs a state change and sends the browser back to the page. Failures
// are already part of the view, so they are only logged here.
func (s *Server) form(action func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := action(r); err != nil {
			s.logger.Debug("Dashboard action finished with error", zap.String("path", r.URL.Path), zap.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) apiView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.build(w))
}

func (s *Server) apiFilters(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var patch domain.FilterPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	s.api(func(r *http.Request) error { return s.dash.UpdateFilter(r.Context(), patch) })(w, r)
}

func (s *Server) apiSort(w http.ResponseWriter, r *http.Request) {
	field, err := domain.ParseSortField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.api(func(r *http.Request) error { return s.dash.ToggleSort(r.Context(), field) })(w, r)
}

// api answers every action with the resulting page. Only a rejected filter
// changes the status code; upstream failures are reported inside the page.
func (s *Server) api(action func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		var verr *domain.ValidationError
		if err := action(r); errors.As(err, &verr) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, s.build(w))
	}
}

// build snapshots the dashboard and reports how its data was obtained.
func (s *Server) build(w http.ResponseWriter) present.Page {
	p := present.Build(s.dash.View(), s.formatter)

	if p.Last.Source != "" {
		observability.AppendServerTiming(w, observability.Timing{Name: "fetch", DurMs: p.Last.DurMs, Desc: string(p.Last.Source)})
		w.Header().Set("X-Source", string(p.Last.Source))
		observability.SetIfPos(w, "X-Fetch-Time", p.Last.DurMs)
	}
	return p
}

func patchFromForm(r *http.Request) domain.FilterPatch {
	_ = r.ParseForm()
	field := func(key string) *string {
		if vals, ok := r.PostForm[key]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	return domain.FilterPatch{
		StartDate:     field("startDate"),
		EndDate:       field("endDate"),
		PriceMin:      field("priceMin"),
		CustomerEmail: field("email"),
		CustomerPhone: field("phone"),
	}
}

func sortMark(s domain.Sort, field string) string {
	if string(s.Field) != field {
		return ""
	}
	if s.Order == domain.SortDesc {
		return "▼"
	}
	return "▲"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
