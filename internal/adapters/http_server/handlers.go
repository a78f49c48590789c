package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"feedback_analyzer/internal/adapters/csvio"
	"feedback_analyzer/internal/analysis"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/domain"
	"feedback_analyzer/internal/sample"
)

// DefaultMaxUpload bounds request bodies when Handlers.MaxUpload is zero.
const DefaultMaxUpload = 10 << 20

type Handlers struct {
	Svc         *app.AnalysisService
	Views       *Views
	MaxUpload   int64
	UploadRPS   float64
	UploadBurst int

	// Properties resolves a stored property's reviews. Nil leaves
	// /v1/properties unmounted.
	Properties func(id int64) domain.ReviewSource
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/", h.dashboard)
	s.mux.Post("/analyze", h.dashboardAnalyze)

	s.mux.Post("/v1/reviews/analyze", h.analyzeReview)
	s.mux.Get("/v1/sample", h.analyzeSample)
	if h.Properties != nil {
		s.mux.Get("/v1/properties/{id}/analysis", h.analyzeProperty)
	}

	// whole-file analysis is the expensive path
	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(h.UploadRPS, h.UploadBurst))
		r.Post("/upload", h.dashboardUpload)
		r.Post("/download", h.download)
		r.Post("/v1/reviews/batch", h.analyzeBatch)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// statusFor maps pipeline errors onto HTTP statuses and problem titles.
func statusFor(err error) (int, string) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, "Upload Too Large"
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "Empty Review"
	case errors.Is(err, domain.ErrTextTooLong):
		return http.StatusBadRequest, "Review Too Long"
	case errors.Is(err, domain.ErrInputNotFound), errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest, "Invalid Input"
	case errors.Is(err, domain.ErrSchema):
		return http.StatusUnprocessableEntity, "Missing Column"
	case errors.Is(err, domain.ErrInvalidRow):
		return http.StatusUnprocessableEntity, "Invalid Row"
	case errors.Is(err, domain.ErrEmptyDataset):
		return http.StatusUnprocessableEntity, "No Data"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func detailFor(status int, err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return "please enter a review"
	case status == http.StatusInternalServerError:
		return "analysis failed"
	}
	return err.Error()
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, title := statusFor(err)
	if status >= 500 {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
	}
	writeProblem(w, status, title, detailFor(status, err))
}

func (h *Handlers) maxUpload() int64 {
	if h.MaxUpload > 0 {
		return h.MaxUpload
	}
	return DefaultMaxUpload
}

// readUpload returns the raw CSV carried by r: a multipart "file" part, a
// url-encoded "csv" field, or the body itself (text/csv).
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUpload()); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: file field: %v", domain.ErrInputNotFound, err)
		}
		defer f.Close()
		return io.ReadAll(f)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
		}
		v := r.PostFormValue("csv")
		if v == "" {
			return nil, fmt.Errorf("%w: csv field is empty", domain.ErrInputNotFound)
		}
		return []byte(v), nil
	default:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
		}
		return b, nil
	}
}

// runBatch analyzes the CSV of a batch request; ?sample=1 selects the
// built-in sample data. The raw upload is returned for re-download.
func (h *Handlers) runBatch(w http.ResponseWriter, r *http.Request) (app.Run, []byte, error) {
	if r.URL.Query().Get("sample") == "1" {
		run, err := h.Svc.AnalyzeDataset(r.Context(), "sample", sample.Dataset())
		return run, nil, err
	}
	raw, err := h.readUpload(w, r)
	if err != nil {
		return app.Run{}, nil, err
	}
	run, err := h.Svc.AnalyzeSource(r.Context(), "upload", csvio.ReaderSource{R: bytes.NewReader(raw), Comma: ','})
	if err != nil {
		return app.Run{}, nil, err
	}
	return run, raw, nil
}

// ---- JSON API ----

type analyzeRequest struct {
	Text string `json:"text"`
}

type reviewResponse struct {
	Line         int              `json:"line,omitempty"`
	Text         *string          `json:"text"`
	Rating       *float64         `json:"rating,omitempty"`
	CleanedText  string           `json:"cleaned_text"`
	Sentiment    domain.Sentiment `json:"sentiment"`
	Polarity     float64          `json:"polarity"`
	Subjectivity float64          `json:"subjectivity"`
	Issues       []string         `json:"issues"`
}

type batchResponse struct {
	RunID   string           `json:"run_id"`
	Reviews []reviewResponse `json:"reviews"`
	Report  analysis.Report  `json:"report"`
}

func toResponse(sr domain.ScoredReview) reviewResponse {
	issues := make([]string, len(sr.Issues))
	for i, c := range sr.Issues {
		issues[i] = string(c)
	}
	return reviewResponse{
		Line:         sr.Line,
		Text:         sr.Text,
		Rating:       sr.Rating,
		CleanedText:  sr.CleanedText,
		Sentiment:    sr.Sentiment,
		Polarity:     sr.Polarity,
		Subjectivity: sr.Subjectivity,
		Issues:       issues,
	}
}

func toBatch(run app.Run) batchResponse {
	out := batchResponse{RunID: run.ID, Report: run.Report, Reviews: make([]reviewResponse, 0, len(run.Scored))}
	for _, sr := range run.Scored {
		out.Reviews = append(out.Reviews, toResponse(sr))
	}
	return out
}

func (h *Handlers) analyzeReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(w, r, err)
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", `body must be {"text": "..."}`)
		return
	}
	sr, err := h.Svc.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sr))
}

func (h *Handlers) analyzeBatch(w http.ResponseWriter, r *http.Request) {
	run, _, err := h.runBatch(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if run.Report.Empty() {
		h.fail(w, r, fmt.Errorf("%w: 0 reviews analyzed", domain.ErrEmptyDataset))
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		writeCSV(w, run)
		return
	}
	writeJSON(w, http.StatusOK, toBatch(run))
}

func (h *Handlers) analyzeSample(w http.ResponseWriter, r *http.Request) {
	run, err := h.Svc.AnalyzeDataset(r.Context(), "sample", sample.Dataset())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatch(run))
}

func (h *Handlers) analyzeProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	run, err := h.Svc.AnalyzeSource(r.Context(), "mysql", h.Properties(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if run.Report.Empty() {
		writeProblem(w, http.StatusNotFound, "Not Found", "no reviews for property")
		return
	}
	writeJSON(w, http.StatusOK, toBatch(run))
}

// download returns the augmented CSV of a re-posted upload.
func (h *Handlers) download(w http.ResponseWriter, r *http.Request) {
	run, _, err := h.runBatch(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, run)
}

func writeCSV(w http.ResponseWriter, run app.Run) {
	var buf bytes.Buffer
	if err := csvio.Write(&buf, run.Header, run.Scored); err != nil {
		log.Error().Err(err).Msg("encode csv failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="analyzed_reviews.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write csv body")
	}
}
