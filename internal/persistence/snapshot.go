package persistence

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func init() {
	// Amounts must persist as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// LoadJSON reads the snapshot at path into v. It reports found=false when
// the file does not exist, and a CORRUPT_DATA error when the file exists
// but cannot be parsed.
func LoadJSON(path string, v any) (found bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.NewCorruptData(path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, apperrors.NewCorruptData(path, err)
	}
	return true, nil
}

// SaveJSON writes v to path atomically: the document is written to a
// temporary file in the same directory and renamed over the target, so a
// concurrent reader never observes a partial write.
func SaveJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewIOError(path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewIOError(path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewIOError(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewIOError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewIOError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewIOError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewIOError(path, err)
	}
	return nil
}
