package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"docpipe/constants"
)

// FileResult is the per-file discovery outcome.
type FileResult struct {
	Path         string
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Scanner discovers ingestible documents and deduplicates them by content
// hash so the same scan is not processed twice within one daemon run.
type Scanner struct {
	mu   sync.Mutex
	seen map[string]struct{} // content hash -> present
}

func NewScanner() *Scanner {
	return &Scanner{seen: make(map[string]struct{})}
}

// Accept hashes the file and reports whether it is new. Known hashes are
// deduplicated, not errors.
func (s *Scanner) Accept(path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{Path: path, Err: err.Error()}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return FileResult{Path: path, Err: err.Error()}, err
	}
	hashHex := hex.EncodeToString(h.Sum(nil))

	s.mu.Lock()
	_, dup := s.seen[hashHex]
	if !dup {
		s.seen[hashHex] = struct{}{}
	}
	s.mu.Unlock()

	return FileResult{Path: path, HashHex: hashHex, Deduplicated: dup}, nil
}

// ScanDirectory walks root, filters to allowed extensions, skips hidden
// entries if requested, and returns per-file results plus aggregate stats.
// New (non-duplicate) files are passed to emit in walk order.
func (s *Scanner) ScanDirectory(ctx context.Context, root string, skipHidden bool, emit func(path string)) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		res, err := s.Accept(path)
		results = append(results, res)
		if err != nil {
			stats.Failed++
			return nil
		}
		stats.Succeeded++
		if res.Deduplicated {
			stats.Deduplicated++
			return nil
		}
		if emit != nil {
			emit(path)
		}
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
