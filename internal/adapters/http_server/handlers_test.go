package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "feedback_analyzer/internal/adapters/http_server"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/domain"
	"feedback_analyzer/internal/lexicon"
)

const reviewsCSV = "customer_name,review_text,rating\n" +
	"Ana,\"Great service, clean car and helpful staff.\",5\n" +
	"Bob,The car was dirty and the staff was rude!,1\n"

type problemBody struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type option func(*server.Handlers)

func newTestServer(t *testing.T, opts ...option) *httptest.Server {
	t.Helper()
	views, err := server.NewViews()
	require.NoError(t, err)

	h := &server.Handlers{
		Svc:   app.NewAnalysisService(lexicon.New(), domain.RowPolicyReject),
		Views: views,
	}
	for _, o := range opts {
		o(h)
	}
	s := server.New(5 * time.Second)
	s.MountHandlers(h)
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postCSV(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeProblem(t *testing.T, resp *http.Response) problemBody {
	t.Helper()
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	var p problemBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeReview(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json",
		strings.NewReader(`{"text":"The car was dirty and the staff was rude!"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		CleanedText string   `json:"cleaned_text"`
		Sentiment   string   `json:"sentiment"`
		Issues      []string `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "the car was dirty and the staff was rude", got.CleanedText)
	assert.Equal(t, "Negative", got.Sentiment)
	assert.Equal(t, []string{"cleanliness", "service_quality"}, got.Issues)
}

func TestAnalyzeReview_PositiveHasNoIssues(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json",
		strings.NewReader(`{"text":"Great car, not dirty at all"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var got struct {
		Sentiment string   `json:"sentiment"`
		Issues    []string `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	if got.Sentiment != "Negative" {
		assert.Empty(t, got.Issues)
		assert.NotNil(t, got.Issues)
	}
}

func TestAnalyzeReview_Errors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json", strings.NewReader(`{"text":"   "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "please enter a review", decodeProblem(t, resp).Detail)

	resp2, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	assert.Equal(t, "Invalid JSON", decodeProblem(t, resp2).Title)
}

func TestAnalyzeReview_TooLong(t *testing.T) {
	ts := newTestServer(t)
	body := `{"text":"` + strings.Repeat("good ", 300000) + `"}`
	resp, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Review Too Long", decodeProblem(t, resp).Title)
}

func TestBatch_JSON(t *testing.T) {
	ts := newTestServer(t)
	resp := postCSV(t, ts.URL+"/v1/reviews/batch", reviewsCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		RunID   string `json:"run_id"`
		Reviews []struct {
			Line      int      `json:"line"`
			Sentiment string   `json:"sentiment"`
			Rating    *float64 `json:"rating"`
		} `json:"reviews"`
		Report struct {
			Total int `json:"total"`
		} `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEmpty(t, got.RunID)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "Positive", got.Reviews[0].Sentiment)
	assert.Equal(t, "Negative", got.Reviews[1].Sentiment)
	assert.Equal(t, 2, got.Reviews[1].Line)
	assert.Equal(t, 2, got.Report.Total)
}

func TestBatch_CSV(t *testing.T) {
	ts := newTestServer(t)
	resp := postCSV(t, ts.URL+"/v1/reviews/batch?format=csv", reviewsCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "customer_name,review_text,rating,cleaned_text,sentiment,polarity,subjectivity,issues", lines[0])
	assert.Contains(t, lines[2], `"[""cleanliness"",""service_quality""]"`)
}

func TestBatch_Multipart(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "reviews.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(reviewsCSV))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/v1/reviews/batch", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBatch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing column", "name,text\nAna,hello\n", http.StatusUnprocessableEntity},
		{"header only", "review_text,rating\n", http.StatusUnprocessableEntity},
		{"null review", "review_text,rating\n,3\n", http.StatusUnprocessableEntity},
		{"bad rating", "review_text,rating\nok,five\n", http.StatusUnprocessableEntity},
		{"empty body", "", http.StatusBadRequest},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postCSV(t, ts.URL+"/v1/reviews/batch", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.status, decodeProblem(t, resp).Status)
		})
	}
}

func TestBatch_TooLarge(t *testing.T) {
	ts := newTestServer(t, func(h *server.Handlers) { h.MaxUpload = 16 })
	resp := postCSV(t, ts.URL+"/v1/reviews/batch", reviewsCSV)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestBatch_RateLimited(t *testing.T) {
	ts := newTestServer(t, func(h *server.Handlers) {
		h.UploadRPS = 0.001
		h.UploadBurst = 1
	})
	first := postCSV(t, ts.URL+"/v1/reviews/batch", reviewsCSV)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postCSV(t, ts.URL+"/v1/reviews/batch", reviewsCSV)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.NotEmpty(t, second.Header.Get("Retry-After"))

	// single-review analysis is not limited
	resp, err := http.Post(ts.URL+"/v1/reviews/analyze", "application/json", strings.NewReader(`{"text":"ok"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSample(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/sample")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Report struct {
			Total           int      `json:"total"`
			Recommendations []string `json:"recommendations"`
		} `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 10, got.Report.Total)
	assert.Len(t, got.Report.Recommendations, 3)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "Bulk analysis")
}

func TestDashboard_AnalyzeForm(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/analyze", url.Values{"text": {"Car was dirty, long wait."}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "Negative")
	assert.Contains(t, string(page), "Cleanliness")
	assert.Contains(t, string(page), "Wait Time")

	empty, err := http.PostForm(ts.URL+"/analyze", url.Values{"text": {""}})
	require.NoError(t, err)
	defer empty.Body.Close()
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
	page, _ = io.ReadAll(empty.Body)
	assert.Contains(t, string(page), "please enter a review")
}

func TestDashboard_SampleUpload(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/upload?sample=1", url.Values{})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	html := string(page)
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "Issue frequency")
	assert.Contains(t, html, "Improve vehicle cleaning procedures.")
}

func TestDownload(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/download", url.Values{"csv": {reviewsCSV}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "analyzed_reviews.csv")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "customer_name,review_text,rating,cleaned_text"))
}

type propertySource struct{ ds domain.Dataset }

func (p propertySource) Load(context.Context) (domain.Dataset, error) { return p.ds, nil }

func TestPropertyAnalysis(t *testing.T) {
	text := "Terrible, the car was dirty."
	rating := 1.0
	ts := newTestServer(t, func(h *server.Handlers) {
		h.Properties = func(id int64) domain.ReviewSource {
			if id != 7 {
				return propertySource{}
			}
			return propertySource{ds: domain.Dataset{
				Header:  []string{domain.ColReviewText, domain.ColRating},
				Reviews: []domain.Review{{Line: 1, Text: &text, Rating: &rating, Columns: []string{text, "1"}}},
			}}
		}
	})

	resp, err := http.Get(ts.URL + "/v1/properties/7/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(ts.URL + "/v1/properties/8/analysis")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, err := http.Get(ts.URL + "/v1/properties/abc/analysis")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestPropertyAnalysis_UnmountedWithoutSource(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/properties/7/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
