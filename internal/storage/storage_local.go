package storage // import "github.com/Xunop/e-library/internal/storage"

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/util"
)

const coverFileName = "cover.webp"

// LocalStorage keeps book covers under <Path>/covers/<book id>/cover.webp.
type LocalStorage struct {
	// Path to the data directory
	Path string
	// Quality of the WebP encoding, 1-100
	Quality int
}

func NewLocalStorage(path string, quality int) *LocalStorage {
	return &LocalStorage{Path: path, Quality: quality}
}

// CoverPath returns where the cover of a book lives, whether or not it exists.
func (s *LocalStorage) CoverPath(bookID int) string {
	return filepath.Join(s.Path, "covers", fmt.Sprint(bookID), coverFileName)
}

// SaveCover converts any gif, jpeg, png or webp image to WebP and stores it
// as the cover of the book, replacing the previous one.
func (s *LocalStorage) SaveCover(bookID int, reader io.Reader) (string, error) {
	var buf bytes.Buffer
	if err := util.EncodeWebp(reader, &buf, s.Quality); err != nil {
		return "", err
	}

	coverPath := s.CoverPath(bookID)
	if err := os.MkdirAll(filepath.Dir(coverPath), os.ModePerm); err != nil {
		return "", errors.Wrap(err, "failed to create cover directory")
	}

	// Write next to the final path then rename, readers never see half a file.
	tmp, err := os.CreateTemp(filepath.Dir(coverPath), coverFileName+".*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create cover file")
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, &buf); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "failed to write cover file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to write cover file")
	}
	if err := os.Rename(tmp.Name(), coverPath); err != nil {
		return "", errors.Wrap(err, "failed to store cover file")
	}

	log.Debug("Stored cover", zap.Int("book_id", bookID), zap.String("path", coverPath))
	return coverPath, nil
}

// HasCover reports whether a cover file exists for the book.
func (s *LocalStorage) HasCover(bookID int) bool {
	_, err := os.Stat(s.CoverPath(bookID))
	return err == nil
}

// RemoveCover deletes the cover directory of a book.
func (s *LocalStorage) RemoveCover(bookID int) error {
	err := os.RemoveAll(filepath.Dir(s.CoverPath(bookID)))
	return errors.Wrapf(err, "failed to remove cover of book %d", bookID)
}
