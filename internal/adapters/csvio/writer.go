package csvio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"feedback_analyzer/internal/domain"
)

// OutputHeader is the input header plus the derived columns. A derived column
// that already exists in the input is replaced in place.
func OutputHeader(header []string) ([]string, map[string]int) {
	out := append([]string(nil), header...)
	idx := make(map[string]int, len(domain.DerivedColumns))
	for _, col := range domain.DerivedColumns {
		pos := -1
		for i, h := range out {
			if h == col {
				pos = i
				break
			}
		}
		if pos < 0 {
			out = append(out, col)
			pos = len(out) - 1
		}
		idx[col] = pos
	}
	return out, idx
}

// Write emits the augmented table.
func Write(w io.Writer, header []string, scored []domain.ScoredReview) error {
	outHeader, idx := OutputHeader(header)
	cw := csv.NewWriter(w)
	if err := cw.Write(outHeader); err != nil {
		return err
	}
	for _, sr := range scored {
		row := make([]string, len(outHeader))
		copy(row, sr.Columns)
		issues, err := IssuesCell(sr.Issues)
		if err != nil {
			return err
		}
		row[idx[domain.ColCleanedText]] = sr.CleanedText
		row[idx[domain.ColSentiment]] = sr.Sentiment.String()
		row[idx[domain.ColPolarity]] = strconv.FormatFloat(sr.Polarity, 'f', -1, 64)
		row[idx[domain.ColSubjectivity]] = strconv.FormatFloat(sr.Subjectivity, 'f', -1, 64)
		row[idx[domain.ColIssues]] = issues
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the augmented table to path.
func WriteFile(path string, header []string, scored []domain.ScoredReview) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, header, scored); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// IssuesCell encodes issues as a JSON array of category ids, "[]" when none.
func IssuesCell(issues []domain.IssueCategory) (string, error) {
	ids := make([]string, len(issues))
	for i, c := range issues {
		ids[i] = string(c)
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteDataset emits ds as read, without derived columns.
func WriteDataset(w io.Writer, ds domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Header); err != nil {
		return err
	}
	for _, r := range ds.Reviews {
		if err := cw.Write(r.Columns); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
