// Package sample provides the built-in demo dataset offered by the
// dashboard and the `analyzer sample` command.
package sample

import (
	"fmt"
	"strconv"

	"feedback_analyzer/internal/domain"
)

var reviews = []struct {
	text   string
	rating float64
}{
	{"Great service! The car was clean and staff was helpful.", 5},
	{"The car had engine issues and rental process took too long.", 2},
	{"Excellent experience. Car was in perfect condition.", 5},
	{"Very disappointed with the service. Car was dirty.", 1},
	{"Good value for money. Decent car and professional staff.", 4},
	{"Terrible experience. Car broke down during trip.", 1},
	{"Amazing service! Quick rental process and new car.", 5},
	{"Average experience. Car was okay but could be cleaner.", 3},
	{"Outstanding customer service. Staff was very helpful.", 5},
	{"Poor service quality. Long waiting times and unclean vehicle.", 2},
}

// Dataset returns a fresh copy of the sample table
// (customer_name, review_text, rating).
func Dataset() domain.Dataset {
	ds := domain.Dataset{
		Header:  []string{"customer_name", domain.ColReviewText, domain.ColRating},
		Reviews: make([]domain.Review, 0, len(reviews)),
	}
	for i, r := range reviews {
		text, rating := r.text, r.rating
		ds.Reviews = append(ds.Reviews, domain.Review{
			Line:    i + 1,
			Text:    &text,
			Rating:  &rating,
			Columns: []string{fmt.Sprintf("Customer_%d", i+1), text, strconv.FormatFloat(rating, 'f', -1, 64)},
		})
	}
	return ds
}
