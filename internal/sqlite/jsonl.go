package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const jsonlExt = ".jsonl"

// collectionFile returns the JSONL path for a collection.
func collectionFile(dataDir, collection string) string {
	return filepath.Join(dataDir, collection+jsonlExt)
}

// collectionFromFile returns the collection name for a JSONL path.
func collectionFromFile(path string) string {
	return strings.TrimSuffix(filepath.Base(path), jsonlExt)
}

// maxRecordSize bounds one JSONL line.
const maxRecordSize = 4 << 20

// readJSONL returns every line of path that holds valid JSON. Blank and
// malformed lines are dropped so one bad record never blocks a load.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxRecordSize)

	var out []json.RawMessage
	for sc.Scan() {
		if line := sc.Bytes(); len(line) > 0 && json.Valid(line) {
			out = append(out, bytes.Clone(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return out, nil
}

// writeJSONL replaces path with records, one per line. The data is written
// and synced to a sibling temp file that is then renamed over path, so
// readers see either the old file or the new one.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	// bufio.Writer errors are sticky; Flush reports the first one.
	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		_, _ = w.Write(rec)
		_ = w.WriteByte('\n')
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ensureJSONLFile creates an empty JSONL file if none exists.
func ensureJSONLFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return os.WriteFile(path, nil, 0o644)
}
