package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"

	"github.com/soylemez/jumboboxd/review/internal/repository"
	"github.com/soylemez/jumboboxd/review/pkg/model"
)

const tracerID = "review-repository-mysql"

// Repository defines a MySQL-based review repository.
type Repository struct {
	db *sql.DB
}

// New creates a new MySQL-based repository. The DSN must carry
// parseTime=true so created_at scans into time.Time.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// GetByID retrieves a review by its id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetByID")
	defer span.End()

	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, movie_id, movie_data, metadata, created_at FROM reviews WHERE id = ?", id)
	return scanReview(row)
}

// ListByUser returns all reviews owned by the given user.
func (r *Repository) ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListByUser")
	defer span.End()

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, movie_id, movie_data, metadata, created_at FROM reviews WHERE user_id = ? ORDER BY id", string(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// ListAll returns every review regardless of owner.
func (r *Repository) ListAll(ctx context.Context) ([]model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListAll")
	defer span.End()

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, movie_id, movie_data, metadata, created_at FROM reviews ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// Create inserts a new review row unconditionally.
func (r *Repository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()

	movieData, metadata, err := marshalDocs(review)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, movie_id, movie_data, metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		string(review.UserID), review.MovieID, movieData, metadata, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *review
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// UpdateMetadata replaces the metadata document of the review with the
// given id.
func (r *Repository) UpdateMetadata(ctx context.Context, id int64, metadata model.Metadata) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateMetadata")
	defer span.End()

	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "UPDATE reviews SET metadata = ? WHERE id = ?", raw, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert performs the existence check and write inside one transaction,
// locking the first matching (user, movie) row so concurrent first-touch
// edits cannot create duplicates through this path.
func (r *Repository) Upsert(ctx context.Context, userID model.UserID, movieID int, movieData model.MovieData, patch model.Patch) (*model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Upsert")
	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, user_id, movie_id, movie_data, metadata, created_at FROM reviews WHERE user_id = ? AND movie_id = ? ORDER BY id LIMIT 1 FOR UPDATE",
		string(userID), movieID)
	existing, err := scanReview(row)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Metadata = model.Merge(existing.Metadata, patch)
		raw, err := json.Marshal(existing.Metadata)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE reviews SET metadata = ? WHERE id = ?", raw, existing.ID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return existing, nil
	}

	created := &model.Review{
		UserID:    userID,
		MovieID:   movieID,
		MovieData: movieData,
		Metadata:  model.Merge(model.Metadata{Collections: []string{}}, patch),
		CreatedAt: time.Now().UTC(),
	}
	movieDataRaw, metadataRaw, err := marshalDocs(created)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO reviews (user_id, movie_id, movie_data, metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		string(userID), movieID, movieDataRaw, metadataRaw, created.CreatedAt)
	if err != nil {
		return nil, err
	}
	if created.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row rowScanner) (*model.Review, error) {
	var rev model.Review
	var userID string
	var movieData, metadata []byte
	if err := row.Scan(&rev.ID, &userID, &rev.MovieID, &movieData, &metadata, &rev.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	rev.UserID = model.UserID(userID)
	if err := json.Unmarshal(movieData, &rev.MovieData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metadata, &rev.Metadata); err != nil {
		return nil, err
	}
	return &rev, nil
}

func collectReviews(rows *sql.Rows) ([]model.Review, error) {
	res := []model.Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *rev)
	}
	return res, rows.Err()
}

func marshalDocs(review *model.Review) ([]byte, []byte, error) {
	movieData, err := json.Marshal(review.MovieData)
	if err != nil {
		return nil, nil, err
	}
	metadata, err := json.Marshal(review.Metadata)
	if err != nil {
		return nil, nil, err
	}
	return movieData, metadata, nil
}
