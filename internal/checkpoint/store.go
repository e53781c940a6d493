// CSV checkpoint files shared by the link and detail harvesters.
// Every write is flushed and fsynced so a crash loses at most the row in flight.

package checkpoint

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// KeyColumn is the header name of the unique key column.
const KeyColumn = "job_url"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// completeLength returns the length of the prefix of r made of whole
// records, i.e. up to the last newline outside a quoted field. Anything after
// it is a row torn by a crash.
func completeLength(r io.Reader) (int64, error) {
	br := bufio.NewReader(r)
	var pos, complete int64
	inQuote := false
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return complete, nil
		}
		if err != nil {
			return complete, err
		}
		pos++
		switch b {
		case '"':
			inQuote = !inQuote
		case '\n':
			if !inQuote {
				complete = pos
			}
		}
	}
}

// openCSV opens path for reading past a BOM. With dropTorn set, a trailing
// row without its newline is hidden; only appended files can hold one.
func openCSV(path string, dropTorn bool) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var src io.Reader = f
	if dropTorn {
		n, err := completeLength(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, nil, err
		}
		src = io.LimitReader(f, n)
	}

	br := bufio.NewReader(src)
	if first, _ := br.Peek(3); len(first) == 3 && string(first) == string(utf8BOM) {
		br.Discard(3)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return f, r, nil
}

// LoadKnownKeys returns the job_url values already persisted at path. A torn
// last row does not count, matching what OpenAppender keeps.
// A missing file is an empty set. A corrupt or unreadable file is logged and
// treated the same way, so the caller starts fresh instead of failing.
func LoadKnownKeys(path string) map[string]struct{} {
	out := make(map[string]struct{})

	f, r, err := openCSV(path, true)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Could not open checkpoint %s: %v. Starting fresh.", path, err)
		}
		return out
	}
	defer f.Close()

	header, err := r.Read()
	if err != nil {
		if err != io.EOF {
			log.Printf("⚠️ Could not read checkpoint header in %s: %v. Starting fresh.", path, err)
		}
		return out
	}
	idx := 0
	for i, h := range header {
		if strings.TrimSpace(h) == KeyColumn {
			idx = i
			break
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// keep what was read so far; a torn last row is expected after a crash
			log.Printf("⚠️ Checkpoint %s is damaged after %d rows: %v", path, len(out), err)
			break
		}
		if len(row) <= idx {
			continue
		}
		if key := strings.TrimSpace(row[idx]); key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}

// LoadRows returns every data row of the CSV at path, header excluded, and
// leaves out a torn last row. A missing file returns no rows and no error.
func LoadRows(path string) ([][]string, error) {
	f, r, err := openCSV(path, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadURLs reads the detail-harvest input: the header row is skipped and
// only first-column values starting with "http" are kept.
func LoadURLs(path string) ([]string, error) {
	f, r, err := openCSV(path, false)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var urls []string
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return urls, fmt.Errorf("read url list %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(row) == 0 {
			continue
		}
		if u := strings.TrimSpace(row[0]); strings.HasPrefix(u, "http") {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// Appender appends rows to a CSV file one at a time.
type Appender struct {
	f *os.File
	w *csv.Writer
}

// OpenAppender opens path for appending. A torn row left by a crash is cut
// off first. The header is written only when the file is new or empty.
func OpenAppender(path string, header []string) (*Appender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	if size > 0 {
		complete, err := completeLength(io.NewSectionReader(f, 0, size))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		if complete < size {
			if err := f.Truncate(complete); err != nil {
				f.Close()
				return nil, fmt.Errorf("repair %s: %w", path, err)
			}
			log.Printf("✂️ Dropped a torn row (%d bytes) at the end of %s", size-complete, path)
			size = complete
		}
	}

	a := &Appender{f: f, w: csv.NewWriter(f)}
	if size == 0 {
		if err := a.Append(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return a, nil
}

// Append writes one row and syncs it to disk before returning.
func (a *Appender) Append(row []string) error {
	if err := a.w.Write(row); err != nil {
		return err
	}
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return err
	}
	return a.f.Sync()
}

func (a *Appender) Close() error {
	return a.f.Close()
}

// WriteSnapshot replaces path with header + rows. The file is written to a
// temp file in the same directory and renamed into place.
func WriteSnapshot(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
