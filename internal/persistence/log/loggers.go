package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelcraft.ai/barrierview/internal/barrierview/display"
)

// DefaultKeep is how many hourly tick files are retained.
const DefaultKeep = 24

// TickLogger writes one JSON line per display tick into hourly zstd files
// under <dataDir>/ticks. It is an operational log of scheduler stats; files
// older than the newest keep hours are removed on rotation.
type TickLogger struct {
	dir  string
	keep int
	now  func() time.Time

	mu   sync.Mutex
	hour string
	f    *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	je   *json.Encoder
}

func NewTickLogger(dataDir string, keep int) *TickLogger {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &TickLogger{dir: filepath.Join(dataDir, "ticks"), keep: keep, now: time.Now}
}

func (l *TickLogger) WriteTick(e display.TickLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hour := l.now().UTC().Format("2006-01-02-15"); hour != l.hour {
		if err := l.openHour(hour); err != nil {
			return fmt.Errorf("tick log: %w", err)
		}
	}
	if err := l.je.Encode(e); err != nil {
		return fmt.Errorf("tick log: %w", err)
	}
	// Flush per tick so a crash loses at most the entry being written.
	return l.bw.Flush()
}

func (l *TickLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFile()
}

func (l *TickLogger) openHour(hour string) error {
	if err := l.closeFile(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(l.dir, "ticks-"+hour+".jsonl.zst"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f, l.zw, l.hour = f, zw, hour
	l.bw = bufio.NewWriterSize(zw, 64*1024)
	l.je = json.NewEncoder(l.bw)
	return l.prune()
}

func (l *TickLogger) closeFile() error {
	if l.f == nil {
		return nil
	}
	err := l.bw.Flush()
	if cerr := l.zw.Close(); err == nil {
		err = cerr
	}
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f, l.zw, l.bw, l.je, l.hour = nil, nil, nil, nil, ""
	return err
}

// prune removes all but the newest keep files. Names sort by hour.
func (l *TickLogger) prune() error {
	paths, err := filepath.Glob(filepath.Join(l.dir, "ticks-*.jsonl.zst"))
	if err != nil || len(paths) <= l.keep {
		return err
	}
	sort.Strings(paths)
	for _, p := range paths[:len(paths)-l.keep] {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Files lists the tick log files under dataDir, oldest first.
func Files(dataDir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dataDir, "ticks", "ticks-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadTicks decodes every entry of one tick log file.
func ReadTicks(path string) ([]display.TickLogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []display.TickLogEntry
	jd := json.NewDecoder(dec)
	for {
		var e display.TickLogEntry
		if err := jd.Decode(&e); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, e)
	}
}
