// Package remote is a SentimentOracle backed by an HTTP scoring service.
//
// Request:  POST <url> {"text": "..."}
// Response: 200 {"polarity": -1..1, "subjectivity": 0..1}
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"feedback_analyzer/internal/adapters/observability"
	"feedback_analyzer/internal/domain"
)

var (
	ErrBadStatus   = errors.New("oracle: bad status")
	ErrBadResponse = errors.New("oracle: bad response")
)

type Oracle struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
}

// New builds a client limited to rps requests per second. Failures are
// returned as-is; the pipeline treats them as terminal for the run.
func New(url string, rps int) (*Oracle, error) {
	if url == "" {
		return nil, fmt.Errorf("oracle URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Oracle{
		url: url,
		hc:  &http.Client{Timeout: 10 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Polarity     *float64 `json:"polarity"`
	Subjectivity *float64 `json:"subjectivity"`
}

// Score implements domain.SentimentOracle. Blank text scores 0/0 without a
// round trip.
func (o *Oracle) Score(ctx context.Context, text string) (domain.Score, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Score{}, nil
	}
	if err := o.rl.Wait(ctx); err != nil {
		return domain.Score{}, err
	}

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return domain.Score{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return domain.Score{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "feedback-analyzer/1.0")

	start := time.Now()
	resp, err := o.hc.Do(req)
	if err != nil {
		observability.ObserveOracle("remote", 0, time.Since(start))
		return domain.Score{}, err
	}
	defer resp.Body.Close()
	observability.ObserveOracle("remote", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Score{}, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Score{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if out.Polarity == nil || out.Subjectivity == nil {
		return domain.Score{}, fmt.Errorf("%w: missing polarity or subjectivity", ErrBadResponse)
	}
	if math.IsNaN(*out.Polarity) || math.IsNaN(*out.Subjectivity) {
		return domain.Score{}, fmt.Errorf("%w: NaN score", ErrBadResponse)
	}
	return domain.Score{
		Polarity:     clamp(*out.Polarity, -1, 1),
		Subjectivity: clamp(*out.Subjectivity, 0, 1),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
