package build

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrick/logrotate/rotator"
)

const (
	// DefaultMaxLogFiles is the number of rotated files kept on disk.
	DefaultMaxLogFiles = 10

	// DefaultMaxLogFileSize is the size in MB at which a file rotates.
	DefaultMaxLogFileSize = 20

	// DefaultLogFilename is the name of the active log file.
	DefaultLogFilename = "roastd.log"
)

// RotatorConfig controls the rotating log file.
type RotatorConfig struct {
	// Dir is the directory holding the log files.
	Dir string

	// Filename is the active file name. Empty selects
	// DefaultLogFilename.
	Filename string

	// MaxFiles is the number of rotated files to keep. Zero keeps one
	// unbounded file.
	MaxFiles int

	// MaxFileSize is the rotation threshold in MB.
	MaxFileSize int
}

// rotatingWriter feeds a jrick/logrotate rotator through a pipe. Rotated
// files are gzip compressed.
type rotatingWriter struct {
	pipe *io.PipeWriter
	done chan struct{}

	closeOnce sync.Once
}

// newRotatingWriter creates the log directory and starts the rotator.
func newRotatingWriter(cfg RotatorConfig) (*rotatingWriter, error) {
	if cfg.Filename == "" {
		cfg.Filename = DefaultLogFilename
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxLogFileSize
	}

	logFile := filepath.Join(cfg.Dir, cfg.Filename)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	// The rotator threshold is in KB.
	r, err := rotator.New(
		logFile, int64(cfg.MaxFileSize*1024), false, cfg.MaxFiles,
	)
	if err != nil {
		return nil, fmt.Errorf("create file rotator: %w", err)
	}
	r.SetCompressor(gzip.NewWriter(nil), ".gz")

	pr, pw := io.Pipe()
	w := &rotatingWriter{
		pipe: pw,
		done: make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		defer r.Close()

		// The rotator is the log sink, so its own failures go to
		// stderr.
		if err := r.Run(pr); err != nil {
			_, _ = fmt.Fprintf(os.Stderr,
				"log rotator stopped: %v\n", err)
		}
	}()

	return w, nil
}

// Write implements io.Writer.
func (w *rotatingWriter) Write(b []byte) (int, error) {
	return w.pipe.Write(b)
}

// Close flushes pending writes and waits for the rotator to exit.
func (w *rotatingWriter) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.pipe.Close()
		<-w.done
	})

	return err
}
