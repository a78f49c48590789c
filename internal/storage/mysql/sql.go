package mysql

// `rating` and `review_text` are nullable; NULL text is a row error for the
// pipeline, not an empty string.
const listReviewsSQL = `
SELECT
  id,
  customer_name,
  rating,
  review_text
FROM reviews
WHERE property_id = ?
ORDER BY id ASC
LIMIT ?
`

const insertReviewSQL = `
INSERT INTO reviews
  (property_id, customer_name, rating, review_text)
VALUES
  (?, ?, ?, ?)
`
