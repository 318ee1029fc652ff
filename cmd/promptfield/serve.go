package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/promptfield/metrics"
	"github.com/randalmurphal/promptfield/settings"
	"github.com/randalmurphal/promptfield/widget"
)

//go:embed page.html.tmpl
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html.tmpl"))

const customElementScript = "https://app.kontent.ai/js-api/custom-element/v1/custom-element.min.js"

// defaultAddr keeps the server on loopback. /api/generate writes to the CMS
// with the configured management key and has no authentication of its own.
const defaultAddr = "127.0.0.1:8080"

func newServeCmd() *cobra.Command {
	var (
		settingsPath string
		addr         string
		assets       string
		origins      []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser build of the element for local development",
		Long: `Serves the element page, the wasm build from --assets, a server-side
generation endpoint and Prometheus metrics. The settings file is watched and
reloaded on change.

The server is meant for local use. The generation endpoint is not
authenticated and writes with the configured management key, so it listens
on loopback unless --addr says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(settingsPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := newServer(s, assets, origins, prometheus.NewRegistry(), slog.Default())
			if settingsPath != "" {
				go func() {
					if err := settings.Watch(ctx, settingsPath, slog.Default(), srv.setSettings); err != nil {
						slog.Warn("settings watch stopped", slog.Any("error", err))
					}
				}()
			}
			return srv.listen(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Settings file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "Listen address")
	cmd.Flags().StringVar(&assets, "assets", "web", "Directory holding promptfield.wasm and wasm_exec.js")
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", []string{"https://app.kontent.ai"}, "Origins allowed to call /api")
	return cmd
}

// server is the development server. Settings are swapped on reload; each
// request works on the settings current when it started.
type server struct {
	mu       sync.RWMutex
	settings settings.Settings

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	router   chi.Router
}

func newServer(s settings.Settings, assets string, origins []string, reg *prometheus.Registry, logger *slog.Logger) *server {
	srv := &server{
		settings: s,
		metrics:  metrics.New(reg),
		gatherer: reg,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.metrics.Middleware)

	r.Get("/", srv.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/schema", srv.handleSchema)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assets))))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
		r.Post("/validate", srv.handleValidate)
		r.Post("/generate", srv.handleGenerate)
	})

	srv.router = r
	return srv
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) current() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *server) setSettings(next settings.Settings) {
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
}

func (s *server) listen(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", slog.String("addr", addr))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type pageData struct {
	Script  string
	Variant string
	Env     settings.Env
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	cur := s.current()
	data := pageData{
		Script:  customElementScript,
		Variant: cur.WidgetVariant().String(),
	}
	// Only the environment variant ships defaults to the browser.
	if cur.WidgetVariant() == widget.VariantEnvironment {
		data.Env = cur.Env()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Error("render page", slog.Any("error", err))
	}
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	v, err := widget.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, widget.ConfigSchema(v))
}

type validateResponse struct {
	OK       bool     `json:"ok"`
	Problems []string `json:"problems,omitempty"`
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	v, err := widget.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "body is not JSON"})
		return
	}

	res := widget.ParseConfig(raw, v)
	if res.OK() {
		writeJSON(w, http.StatusOK, validateResponse{OK: true})
		return
	}
	var cfgErr *widget.ConfigError
	errors.As(res.Err(), &cfgErr)
	writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Problems: cfgErr.Problems})
}

type generateResponse struct {
	Text  string `json:"text,omitempty"`
	Stage string `json:"stage"`
	Error string `json:"error,omitempty"`
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil || req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "prompt is required"})
		return
	}

	cur := s.current()
	if err := cur.Validate(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	}

	res, err := runOnce(r.Context(), cur, req, s.logger, s.metrics.Observe)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, generateResponse{Stage: string(res.Stage), Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Text: res.Text, Stage: string(res.Stage)})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
