// Package flightlog appends journey events to hourly zstd-compressed JSONL files.
package flightlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

const bufferSize = 128 * 1024

// Entry is one journal line.
type Entry struct {
	Time        time.Time      `json:"time"`
	Kind        taxi.EventKind `json:"kind"`
	Player      string         `json:"player"`
	Source      uint32         `json:"source,omitempty"`
	Destination uint32         `json:"destination,omitempty"`
	PathID      uint32         `json:"path_id,omitempty"`
	MapID       uint32         `json:"map_id"`
	Cost        uint32         `json:"cost,omitempty"`
}

// Writer is a taxi.EventSink writing to <dir>/<prefix>-YYYY-MM-DD-HH.jsonl.zst.
// Safe for concurrent use: sessions record from their own goroutines.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

var _ taxi.EventSink = (*Writer)(nil)

// New creates a journal writer. Files are opened lazily on the first event.
func New(dir, prefix string) *Writer {
	return &Writer{
		dir:    dir,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record implements taxi.EventSink. Write failures are logged, never returned:
// a broken journal must not stop flights.
func (w *Writer) Record(ev taxi.Event) {
	e := Entry{
		Time:        w.now(),
		Kind:        ev.Kind,
		Player:      ev.Player,
		Source:      uint32(ev.Source),
		Destination: uint32(ev.Destination),
		PathID:      ev.PathID,
		MapID:       ev.MapID,
		Cost:        ev.Cost,
	}
	if err := w.Write(e); err != nil {
		slog.Error("flight journal write failed",
			"kind", ev.Kind,
			"character", ev.Player,
			"error", err)
	}
}

// Write appends one entry and flushes it to the compressor.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := e.Time.UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close finishes the current zstd frame and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// PathForHour returns the file name used for hour ("2006-01-02-15").
func (w *Writer) PathForHour(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}
	path := w.PathForHour(hour)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, bufferSize)
	w.curHour = hour
	slog.Debug("flight journal rotated", "path", path)
	return nil
}

func (w *Writer) closeLocked() error {
	var err error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err
}
