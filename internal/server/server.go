// Package server exposes stored lesson pages read-only over HTTP so that
// students on the LAN can follow along.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Pages is the read side of the page store. *store.Store implements it.
type Pages interface {
	ListLessons(ctx context.Context) ([]string, error)
	ListPages(ctx context.Context, lesson string) ([]store.PageInfo, error)
	LoadPage(ctx context.Context, lesson string, idx int) ([]byte, error)
}

type pageJSON struct {
	Index     int       `json:"index"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url"`
}

type handler struct{ pages Pages }

// New returns the router serving:
//
//	GET /lessons
//	GET /lessons/{lesson}/pages
//	GET /lessons/{lesson}/pages/{page}.png
func New(p Pages) http.Handler {
	h := &handler{pages: p}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog)
	r.Get("/lessons", h.lessons)
	r.Get("/lessons/{lesson}/pages", h.list)
	r.Get("/lessons/{lesson}/pages/{page:[0-9]+}.png", h.page)
	return r
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Logger().Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *handler) lessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.pages.ListLessons(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if lessons == nil {
		lessons = []string{}
	}
	writeJSON(w, lessons)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	lesson := chi.URLParam(r, "lesson")
	infos, err := h.pages.ListPages(r.Context(), lesson)
	if err != nil {
		h.fail(w, err)
		return
	}
	if len(infos) == 0 {
		http.NotFound(w, r)
		return
	}
	out := make([]pageJSON, len(infos))
	for i, p := range infos {
		out[i] = pageJSON{
			Index:     p.Index,
			Width:     p.Width,
			Height:    p.Height,
			Size:      p.Size,
			UpdatedAt: p.UpdatedAt.UTC(),
			URL:       "/lessons/" + lesson + "/pages/" + strconv.Itoa(p.Index) + ".png",
		}
	}
	writeJSON(w, out)
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	data, err := h.pages.LoadPage(r.Context(), chi.URLParam(r, "lesson"), idx)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	logging.Logger().Error("page server", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Warn("write response", "err", err)
	}
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Logger().Info("page server listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
