package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/util"
)

func (s *Store) GetBook(ctx context.Context, id int) (*model.Book, error) {
	if cache, ok := s.BookCache.Load(id); ok {
		return cache.(*model.Book), nil
	}
	book, err := getBook(ctx, s.db, id)
	if err != nil || book == nil {
		return book, err
	}
	s.BookCache.Store(book.ID, book)
	return book, nil
}

func getBook(ctx context.Context, q queryer, id int) (*model.Book, error) {
	list, err := listBooks(ctx, q, &model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListBooks returns books ordered by title with author name and genre names.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	return listBooks(ctx, s.db, find)
}

func listBooks(ctx context.Context, q queryer, find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book.id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "book.title LIKE ?"), append(args, "%"+*v+"%")
	}
	if v := find.AuthorID; v != nil {
		where, args = append(where, "book.author_id = ?"), append(args, *v)
	}
	if v := find.GenreID; v != nil {
		where, args = append(where, "book.id IN (SELECT book_id FROM book_genre WHERE genre_id = ?)"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "book.isbn = ?"), append(args, *v)
	}

	query := `
		SELECT
			book.id,
			book.title,
			book.author_id,
			book.summary,
			book.isbn,
			book.has_cover,
			book.created_ts,
			book.updated_ts,
			COALESCE(author.last_name || ', ' || author.first_name, ''),
			sortconcat(genre.id, genre.name)
		FROM book
		LEFT JOIN author ON author.id = book.author_id
		LEFT JOIN book_genre ON book_genre.book_id = book.id
		LEFT JOIN genre ON genre.id = book_genre.genre_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY book.id
		ORDER BY book.title ASC, book.id ASC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}
	logQuery(query, args)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var (
			book     model.Book
			authorID sql.NullInt64
			genres   sql.NullString
		)
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&authorID,
			&book.Summary,
			&book.ISBN,
			&book.HasCover,
			&book.CreatedTs,
			&book.UpdatedTs,
			&book.AuthorName,
			&genres,
		); err != nil {
			return nil, err
		}
		if authorID.Valid {
			id := int(authorID.Int64)
			book.AuthorID = &id
		}
		book.Genres = util.SplitConcatenated(genres.String)
		list = append(list, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateBook inserts a book and links its genres in one transaction.
func (s *Store) CreateBook(ctx context.Context, create *model.Book, genreIDs []int) (*model.Book, error) {
	stmt := `INSERT INTO book (title, author_id, summary, isbn) VALUES (?, ?, ?, ?) RETURNING id`
	args := []any{create.Title, nullableInt(create.AuthorID), create.Summary, create.ISBN}
	logQuery(stmt, args)

	var id int
	err := s.RunInTx(ctx, func(tx *Tx) error {
		if err := tx.tx.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
			return errors.Wrap(err, "failed to insert book")
		}
		return linkGenres(ctx, tx.tx, id, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBook(ctx, id)
}

// UpdateBook replaces the fields and genres of a book.
func (s *Store) UpdateBook(ctx context.Context, update *model.Book, genreIDs []int) (*model.Book, error) {
	stmt := `UPDATE book SET title = ?, author_id = ?, summary = ?, isbn = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`
	args := []any{update.Title, nullableInt(update.AuthorID), update.Summary, update.ISBN, update.ID}
	logQuery(stmt, args)

	err := s.RunInTx(ctx, func(tx *Tx) error {
		result, err := tx.tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return errors.Wrap(err, "failed to update book")
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return errors.Wrapf(ErrNotFound, "book %d", update.ID)
		}
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM book_genre WHERE book_id = ?`, update.ID); err != nil {
			return errors.Wrap(err, "failed to unlink genres")
		}
		return linkGenres(ctx, tx.tx, update.ID, genreIDs)
	})
	s.BookCache.Delete(update.ID)
	if err != nil {
		return nil, err
	}
	return s.GetBook(ctx, update.ID)
}

func linkGenres(ctx context.Context, q queryer, bookID int, genreIDs []int) error {
	for _, genreID := range genreIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO book_genre (book_id, genre_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, bookID, genreID); err != nil {
			return errors.Wrapf(err, "failed to link genre %d", genreID)
		}
	}
	return nil
}

// DeleteBook removes a book; its copies, reviews and genre links cascade.
func (s *Store) DeleteBook(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM book WHERE id = ?`, id)
	s.BookCache.Delete(id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete book %d", id)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(ErrNotFound, "book %d", id)
	}
	return nil
}

func (s *Store) SetBookCover(ctx context.Context, id int, hasCover bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE book SET has_cover = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`, hasCover, id)
	s.BookCache.Delete(id)
	return errors.Wrapf(err, "failed to set cover of book %d", id)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
