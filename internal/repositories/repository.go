package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/stirlingqr/leadgate/internal/apperrors"
	"github.com/stirlingqr/leadgate/internal/models"
)

// CSVRepository owns all reads and writes of the persisted lead collection.
// The backing file is rewritten in full on every mutation; writers are
// serialized behind the repository mutex and every rewrite lands via a
// temp-file-then-rename so a crash mid-write cannot leave a partial file.
type CSVRepository struct {
	path string
	mu   sync.Mutex
}

// NewCSVRepository returns a new CSVRepository persisting to the given path.
// The file is not created until the first successful append.
func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// Path returns the location of the backing leads file
func (r *CSVRepository) Path() string {
	return r.path
}

// Append loads the current collection, adds the lead at the end, and writes
// the full collection back. A missing backing file means an empty collection;
// an unreadable or malformed file fails the operation rather than dropping
// existing rows.
func (r *CSVRepository) Append(lead models.Lead) *apperrors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	leads, appErr := r.readAll()
	if appErr != nil {
		return appErr
	}
	leads = append(leads, lead)
	return r.writeAll(leads)
}

// ListAll returns the full ordered collection. A missing backing file is the
// benign "no data yet" case and yields an empty slice, not an error.
func (r *CSVRepository) ListAll() ([]models.Lead, *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

// Delete removes every lead whose ID is in ids, preserving the relative order
// of the survivors, and returns the number of rows removed. An empty ID set is
// a no-op with no file rewrite.
func (r *CSVRepository) Delete(ids []string) (int, *apperrors.AppError) {
	if len(ids) == 0 {
		return 0, nil
	}

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	leads, appErr := r.readAll()
	if appErr != nil {
		return 0, appErr
	}

	kept := leads[:0]
	for _, lead := range leads {
		if _, ok := selected[lead.ID]; !ok {
			kept = append(kept, lead)
		}
	}

	removed := len(leads) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if appErr := r.writeAll(kept); appErr != nil {
		return 0, appErr
	}
	return removed, nil
}

// readAll parses the backing file into the ordered collection.
// Callers must hold the repository mutex.
func (r *CSVRepository) readAll() ([]models.Lead, *apperrors.AppError) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Lead{}, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrFileOperation, fmt.Sprintf("failed to open leads file %q", r.path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(models.CSVHeader)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			// Zero-byte file: treat as empty rather than corrupt
			return []models.Lead{}, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to read leads file header")
	}
	for i, name := range models.CSVHeader {
		if header[i] != name {
			return nil, apperrors.Wrap(fmt.Errorf("unexpected header %v", header), apperrors.ErrCSVProcessing, "leads file header does not match the expected columns")
		}
	}

	leads := []models.Lead{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCSVProcessing, fmt.Sprintf("failed to parse leads file at line %d", line))
		}
		leads = append(leads, models.LeadFromRecord(record))
	}
	return leads, nil
}

// writeAll rewrites the whole collection atomically.
// Callers must hold the repository mutex.
func (r *CSVRepository) writeAll(leads []models.Lead) *apperrors.AppError {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".leads-*.csv")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileOperation, "failed to create temp file for leads rewrite")
	}
	tmpName := tmp.Name()
	// Clean up the temp file on any failure past this point
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(models.CSVHeader); err != nil {
		tmp.Close()
		return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to write leads file header")
	}
	for _, lead := range leads {
		if err := writer.Write(lead.Record()); err != nil {
			tmp.Close()
			return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to write lead row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to flush leads file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileOperation, "failed to close temp leads file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileOperation, "failed to set leads file permissions")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileOperation, "failed to replace leads file")
	}
	return nil
}
