package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSentiment_JSON(t *testing.T) {
	b, err := json.Marshal(Negative)
	if err != nil || string(b) != `"Negative"` {
		t.Fatalf("marshal: %s %v", b, err)
	}
	var s Sentiment
	if err := json.Unmarshal([]byte(`"Positive"`), &s); err != nil || s != Positive {
		t.Fatalf("unmarshal: %v %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"Great"`), &s); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestRowError_UnwrapsToInvalidRow(t *testing.T) {
	err := Review{Line: 4}.Validate()
	if !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("expected ErrInvalidRow, got %v", err)
	}
	if err.Error() != "row 4: review_text: null value" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	blank := "  "
	if err := (Review{Line: 5, Text: &blank}).Validate(); err != nil {
		t.Fatalf("whitespace text must be valid, got %v", err)
	}
}

func TestParseRowPolicy(t *testing.T) {
	for in, want := range map[string]RowPolicy{"": RowPolicyReject, "reject": RowPolicyReject, "skip": RowPolicySkip} {
		got, err := ParseRowPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseRowPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRowPolicy("drop"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIssueCategory_DisplayName(t *testing.T) {
	if got := IssueVehicleCondition.DisplayName(); got != "Vehicle Condition" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestDataset_ColumnIndex(t *testing.T) {
	ds := Dataset{Header: []string{"name", " review_text ", "rating"}}
	if ds.ColumnIndex(ColReviewText) != 1 || ds.ColumnIndex("missing") != -1 {
		t.Fatalf("unexpected indexes")
	}
}
