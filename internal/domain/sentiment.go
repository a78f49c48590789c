package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentiment is the discrete label assigned from polarity.
type Sentiment int

const (
	Negative Sentiment = -1
	Neutral  Sentiment = 0
	Positive Sentiment = 1
)

var sentimentNames = map[Sentiment]string{
	Negative: "Negative",
	Neutral:  "Neutral",
	Positive: "Positive",
}

var sentimentFromName = map[string]Sentiment{
	"Negative": Negative,
	"Neutral":  Neutral,
	"Positive": Positive,
}

// DistributionOrder is the order labels appear in the distribution section.
var DistributionOrder = []Sentiment{Positive, Negative, Neutral}

// AlphabeticalOrder is used for per-label rating averages and box plots.
var AlphabeticalOrder = []Sentiment{Negative, Neutral, Positive}

func (s Sentiment) String() string {
	if name, ok := sentimentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sentiment(%d)", int(s))
}

// ParseSentiment maps "Positive"/"Negative"/"Neutral" back to a label.
func ParseSentiment(name string) (Sentiment, error) {
	v, ok := sentimentFromName[name]
	if !ok {
		return Neutral, fmt.Errorf("unknown sentiment %q", name)
	}
	return v, nil
}

func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseSentiment(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IssueCategory is one of the five fixed operational complaint buckets.
type IssueCategory string

const (
	IssueCleanliness      IssueCategory = "cleanliness"
	IssueVehicleCondition IssueCategory = "vehicle_condition"
	IssueServiceQuality   IssueCategory = "service_quality"
	IssueWaitTime         IssueCategory = "wait_time"
	IssuePricing          IssueCategory = "pricing"
)

// IssueCategories is the closed enumeration in its fixed order.
var IssueCategories = []IssueCategory{
	IssueCleanliness,
	IssueVehicleCondition,
	IssueServiceQuality,
	IssueWaitTime,
	IssuePricing,
}

// DisplayName turns "vehicle_condition" into "Vehicle Condition". A Caser
// is stateful, so each call builds its own.
func (c IssueCategory) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}
