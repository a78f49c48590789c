// Package csvio reads review tables from delimited files and writes the
// augmented result table back out.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"feedback_analyzer/internal/domain"
)

// ratingNullTokens are rating cells treated as missing rather than invalid.
var ratingNullTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {},
}

// FileSource loads a Dataset from a delimited file on disk.
type FileSource struct {
	Path  string
	Comma rune
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Comma: ','}
}

func (s *FileSource) Load(_ context.Context) (domain.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %s: %v", domain.ErrInputNotFound, s.Path, err)
	}
	defer f.Close()
	return Read(f, s.Comma)
}

// ReaderSource loads a Dataset from an in-memory stream (uploads, stdin).
type ReaderSource struct {
	R     io.Reader
	Comma rune
}

func (s ReaderSource) Load(_ context.Context) (domain.Dataset, error) {
	return Read(s.R, s.Comma)
}

// Read parses a header row plus data rows. The header must contain
// review_text; rating is optional; every other column is carried through.
// An empty review_text cell is a null value and is left for the row policy.
func Read(r io.Reader, comma rune) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{}, fmt.Errorf("%w: no header row", domain.ErrMalformedInput)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	ds := domain.Dataset{Header: append([]string(nil), header...)}

	ti := ds.ColumnIndex(domain.ColReviewText)
	if ti < 0 {
		return domain.Dataset{}, fmt.Errorf("%w (header: %s)", domain.ErrSchema, strings.Join(header, ","))
	}
	ri := ds.ColumnIndex(domain.ColRating)

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
		}
		ds.Reviews = append(ds.Reviews, decodeRow(line, rec, ti, ri))
	}
	return ds, nil
}

func decodeRow(line int, rec []string, ti, ri int) domain.Review {
	rv := domain.Review{Line: line, Columns: append([]string(nil), rec...)}
	if v := rec[ti]; v != "" {
		rv.Text = &v
	}
	if ri < 0 {
		return rv
	}
	raw := strings.TrimSpace(rec[ri])
	if _, null := ratingNullTokens[strings.ToLower(raw)]; null {
		return rv
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		rv.Invalid = &domain.RowError{Line: line, Field: domain.ColRating, Reason: fmt.Sprintf("not a number: %q", raw)}
		return rv
	}
	rv.Rating = &f
	return rv
}
