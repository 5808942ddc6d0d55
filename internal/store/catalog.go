package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

// GetCatalogSummary counts books, copies, authors and genres in one query.
func (s *Store) GetCatalogSummary(ctx context.Context) (*model.CatalogSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM book),
			(SELECT COUNT(*) FROM book_copy),
			(SELECT COUNT(*) FROM book_copy WHERE status = ?),
			(SELECT COUNT(*) FROM author),
			(SELECT COUNT(*) FROM genre)`

	var summary model.CatalogSummary
	if err := s.db.QueryRowContext(ctx, query, model.CopyStatusAvailable.String()).Scan(
		&summary.NumBooks,
		&summary.NumCopies,
		&summary.NumCopiesAvailable,
		&summary.NumAuthors,
		&summary.NumGenres,
	); err != nil {
		return nil, errors.Wrap(err, "failed to count catalog")
	}
	return &summary, nil
}
