package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/bestofn/internal/dashboard"
	"github.com/vytor/bestofn/internal/errors"
	"github.com/vytor/bestofn/internal/logger"
	"github.com/vytor/bestofn/internal/source"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering dashboard")
	session := sessionFromContext(r.Context())

	d, err := s.ScoreService.Dashboard(r.Context(), session.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/dashboard.html", pageData{
		"dashboard": d,
		"chart":     dashboard.RenderSVG(d.Chart),
		"status":    r.URL.Query().Get("status"),
	})
}

// handleScrape takes pasted page content from the dashboard form. NoData,
// SourceUnavailable and oversized pages are outcomes shown on the dashboard,
// not errors. An oversized form still reaches the service so the session is
// cleared the same way as on the JSON path.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	session := sessionFromContext(r.Context())

	var formLimit int64
	if s.MaxDocumentBytes > 0 {
		// Percent-encoding can triple the content, plus room for the ref field.
		formLimit = 3*s.MaxDocumentBytes + 4096
		r.Body = http.MaxBytesReader(w, r.Body, formLimit)
	}

	var doc source.Document
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if !stderrors.As(err, &tooLarge) {
			handleError(w, r, errors.NewBadRequestError("could not read form: "+err.Error()))
			return
		}
		log.Warn("scrape form exceeds %d bytes", formLimit)
		doc = source.Document{Ref: r.URL.Query().Get("ref"), Size: formLimit + 1}
	} else {
		doc = source.Document{
			Ref:  r.FormValue("ref"),
			Body: []byte(r.FormValue("content")),
		}
	}
	if err := validateRequest(scrapeRequest{Ref: doc.Ref}); err != nil {
		handleError(w, r, err)
		return
	}

	_, err := s.ScoreService.Scrape(r.Context(), session.ID, doc)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case stderrors.Is(err, source.ErrDocumentTooLarge):
		log.Info("scrape document too large")
		http.Redirect(w, r, "/?status=too_large", http.StatusSeeOther)
	case errors.HasCode(err, errors.ErrCodeNoData):
		log.Info("scrape found no scores")
		http.Redirect(w, r, "/?status=no_data", http.StatusSeeOther)
	case errors.HasCode(err, errors.ErrCodeSourceUnavailable):
		log.Info("scrape source unavailable: %v", err)
		http.Redirect(w, r, "/?status=unavailable", http.StatusSeeOther)
	default:
		handleError(w, r, err)
	}
}

func (s *Server) handleSelectWindow(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("window must be an integer"))
		return
	}

	if _, err := s.ScoreService.SelectWindow(r.Context(), session.ID, n); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	if err := s.ScoreService.EndSession(r.Context(), session.ID); err != nil {
		handleError(w, r, err)
		return
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	d, err := s.ScoreService.Dashboard(r.Context(), session.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, dashboard.RenderSVG(d.Chart))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
