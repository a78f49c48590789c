package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"feedback_analyzer/internal/domain"
)

// Columns of the dataset produced from the reviews table, in order.
var Header = []string{"review_id", "customer_name", domain.ColRating, domain.ColReviewText}

// DefaultLimit caps rows read per property.
const DefaultLimit = 100_000

// MySQL error 1146: table doesn't exist.
const errNoSuchTable = 1146

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Open connects and pings the database behind dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: mysql: %v", domain.ErrInputNotFound, err)
	}
	return db, nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// StoredReview is a row of the reviews table.
type StoredReview struct {
	PropertyID   int64
	CustomerName *string
	Rating       *float64
	Text         *string
}

func (r *Repo) InsertReviews(ctx context.Context, rs []StoredReview) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertReviewSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rv := range rs {
		if _, err := stmt.ExecContext(ctx, rv.PropertyID, valStr(rv.CustomerName), valF64(rv.Rating), valStr(rv.Text)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListReviews reads up to limit reviews of a property as a Dataset. Line
// numbers are 1-based row positions in the result.
func (r *Repo) ListReviews(ctx context.Context, propertyID int64, limit int) (domain.Dataset, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, propertyID, limit)
	if err != nil {
		var me *gomysql.MySQLError
		if errors.As(err, &me) && me.Number == errNoSuchTable {
			return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrInputNotFound, me.Message)
		}
		return domain.Dataset{}, err
	}
	defer rows.Close()

	ds := domain.Dataset{Header: append([]string(nil), Header...)}
	for rows.Next() {
		var (
			id     int64
			name   sql.NullString
			rating sql.NullFloat64
			text   sql.NullString
		)
		if err := rows.Scan(&id, &name, &rating, &text); err != nil {
			return domain.Dataset{}, err
		}

		rv := domain.Review{
			Line:    len(ds.Reviews) + 1,
			Columns: []string{strconv.FormatInt(id, 10), name.String, "", text.String},
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
			rv.Columns[2] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		if text.Valid {
			s := text.String
			rv.Text = &s
		}
		ds.Reviews = append(ds.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// Source is a domain.ReviewSource over one property's reviews.
type Source struct {
	Repo       *Repo
	PropertyID int64
	Limit      int
}

func (s Source) Load(ctx context.Context) (domain.Dataset, error) {
	return s.Repo.ListReviews(ctx, s.PropertyID, s.Limit)
}
