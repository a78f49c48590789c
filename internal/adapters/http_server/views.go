package httpserver

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"feedback_analyzer/internal/adapters/chart"
	"feedback_analyzer/internal/analysis"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views holds the dashboard templates, parsed once at startup.
type Views struct {
	t  *template.Template
	md goldmark.Markdown
}

func NewViews() (*Views, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"pct":  func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"num3": func(v float64) string { return fmt.Sprintf("%.3f", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{
		t:  t,
		md: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}, nil
}

type pageData struct {
	Title  string
	Error  string
	Text   string
	Single *singleView
	Batch  *batchView
}

type singleView struct {
	Sentiment    domain.Sentiment
	Polarity     float64
	Subjectivity float64
	CleanedText  string
	Issues       []string
}

type issueBar struct {
	Name  string
	Count int
	Width int // percent of the most frequent issue
}

type rowView struct {
	Line         int
	Text         string
	Sentiment    domain.Sentiment
	Polarity     float64
	Subjectivity float64
	Issues       string
}

type batchView struct {
	RunID       string
	Total       int
	Positive    float64
	Negative    float64
	AvgPolarity float64
	Issues      []issueBar
	ReportHTML  template.HTML
	ChartURI    template.URL
	Rows        []rowView
	CSV         string
	Sample      bool
}

func (v *Views) render(w http.ResponseWriter, status int, data pageData) {
	if data.Title == "" {
		data.Title = "Car Rental Feedback Analyzer"
	}
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		log.Error().Err(err).Msg("render dashboard failed")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func newSingleView(sr domain.ScoredReview) *singleView {
	return &singleView{
		Sentiment:    sr.Sentiment,
		Polarity:     sr.Polarity,
		Subjectivity: sr.Subjectivity,
		CleanedText:  sr.CleanedText,
		Issues:       analysis.IssueNames(sr.Issues),
	}
}

// newBatchView assembles the bulk dashboard. Chart and markdown failures
// degrade to a page without them.
func (v *Views) newBatchView(run app.Run, raw []byte) *batchView {
	rep := run.Report
	bv := &batchView{
		RunID:  run.ID,
		Total:  rep.Total,
		CSV:    string(raw),
		Sample: run.Source == "sample",
	}
	bv.Positive, _ = rep.Percent(domain.Positive)
	bv.Negative, _ = rep.Percent(domain.Negative)
	if rep.AveragePolarity != nil {
		bv.AvgPolarity = *rep.AveragePolarity
	}

	top := 0
	for _, ic := range rep.Issues {
		top = max(top, ic.Count)
	}
	for _, ic := range rep.Issues {
		bv.Issues = append(bv.Issues, issueBar{Name: ic.Issue.DisplayName(), Count: ic.Count, Width: ic.Count * 100 / top})
	}

	var md bytes.Buffer
	if err := v.md.Convert([]byte(analysis.RenderMarkdown(rep)), &md); err != nil {
		log.Warn().Err(err).Msg("markdown report conversion failed")
	} else {
		bv.ReportHTML = template.HTML(md.String())
	}

	var png bytes.Buffer
	if err := chart.Render(&png, run.Scored); err != nil {
		log.Warn().Err(err).Msg("chart rendering failed")
	} else {
		bv.ChartURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png.Bytes()))
	}

	for _, sr := range run.Scored {
		rv := rowView{
			Line:         sr.Line,
			Sentiment:    sr.Sentiment,
			Polarity:     sr.Polarity,
			Subjectivity: sr.Subjectivity,
		}
		if sr.Text != nil {
			rv.Text = *sr.Text
		}
		for i, n := range analysis.IssueNames(sr.Issues) {
			if i > 0 {
				rv.Issues += ", "
			}
			rv.Issues += n
		}
		bv.Rows = append(bv.Rows, rv)
	}
	return bv
}

// ---- dashboard handlers ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	h.Views.render(w, http.StatusOK, pageData{})
}

func (h *Handlers) dashboardAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	text := r.PostFormValue("text")
	sr, err := h.Svc.AnalyzeText(r.Context(), text)
	if err != nil {
		status, _ := statusFor(err)
		h.Views.render(w, status, pageData{Text: text, Error: detailFor(status, err)})
		return
	}
	h.Views.render(w, http.StatusOK, pageData{Text: text, Single: newSingleView(sr)})
}

func (h *Handlers) dashboardUpload(w http.ResponseWriter, r *http.Request) {
	run, raw, err := h.runBatch(w, r)
	if err == nil && run.Report.Empty() {
		err = fmt.Errorf("%w: 0 reviews analyzed", domain.ErrEmptyDataset)
	}
	if err != nil {
		status, _ := statusFor(err)
		h.Views.render(w, status, pageData{Error: detailFor(status, err)})
		return
	}
	h.Views.render(w, http.StatusOK, pageData{Batch: h.Views.newBatchView(run, raw)})
}
