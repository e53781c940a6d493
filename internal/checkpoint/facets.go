package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FacetLog records which facets finished, one key per line, so a restarted
// link harvest can skip them.
type FacetLog struct {
	path string
	done map[string]struct{}
}

// OpenFacetLog loads the sidecar at path. A missing or unreadable file
// yields an empty log.
func OpenFacetLog(path string) *FacetLog {
	l := &FacetLog{path: path, done: make(map[string]struct{})}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Could not read facet log %s: %v", path, err)
		}
		return l
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if key := strings.TrimSpace(sc.Text()); key != "" {
			l.done[key] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("⚠️ Facet log %s is damaged: %v", path, err)
	}
	return l
}

func (l *FacetLog) Done(key string) bool {
	_, ok := l.done[key]
	return ok
}

func (l *FacetLog) Len() int {
	return len(l.done)
}

// Mark appends key to the sidecar and syncs it.
func (l *FacetLog) Mark(key string) error {
	if l.Done(key) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open facet log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(key + "\n"); err != nil {
		return fmt.Errorf("write facet log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return err
	}
	l.done[key] = struct{}{}
	return nil
}

// Reset forgets every completed facet and removes the sidecar.
func (l *FacetLog) Reset() error {
	l.done = make(map[string]struct{})
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
