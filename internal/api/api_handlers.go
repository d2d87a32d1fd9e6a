package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vytor/bestofn/internal/errors"
	"github.com/vytor/bestofn/internal/logger"
	"github.com/vytor/bestofn/internal/scores"
	"github.com/vytor/bestofn/internal/source"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type windowRequest struct {
	N int `json:"n" validate:"required,min=1"`
}

// scrapeRequest carries the metadata submitted alongside a document.
type scrapeRequest struct {
	Ref string `json:"ref" validate:"omitempty,max=2048"`
}

// validateRequest maps validator failures onto VALIDATION_ERROR for the
// first offending field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return errors.NewValidationError(fe.Field(), fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "required":
		return errors.NewValidationError(fe.Field(), "is required")
	default:
		return errors.NewValidationError(fe.Field(), fmt.Sprintf("failed %s check", fe.Tag()))
	}
}

// handleAPIScrape treats the raw request body as the active document.
// The page reference comes from the X-Page-Ref header or ?ref=.
func (s *Server) handleAPIScrape(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	session := sessionFromContext(r.Context())

	body := io.Reader(r.Body)
	if s.MaxDocumentBytes > 0 {
		// One extra byte lets the source see that the limit was exceeded.
		body = io.LimitReader(r.Body, s.MaxDocumentBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		log.Warn("failed to read scrape body: %v", err)
		handleError(w, r, errors.NewSourceUnavailableError(err))
		return
	}

	req := scrapeRequest{Ref: r.Header.Get("X-Page-Ref")}
	if req.Ref == "" {
		req.Ref = r.URL.Query().Get("ref")
	}
	if err := validateRequest(req); err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.ScoreService.Scrape(r.Context(), session.ID, source.Document{
		Ref:         req.Ref,
		ContentType: r.Header.Get("Content-Type"),
		Body:        raw,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAPIWindow(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body: "+err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			handleError(w, r, errors.NewInvalidSelectionError(req.N, scores.ErrInvalidSelection))
			return
		}
		handleError(w, r, err)
		return
	}

	d, err := s.ScoreService.SelectWindow(r.Context(), session.ID, req.N)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	d, err := s.ScoreService.Dashboard(r.Context(), session.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAPIEndSession(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	if err := s.ScoreService.EndSession(r.Context(), session.ID); err != nil {
		handleError(w, r, err)
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
