package progress

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Writer wraps an io.Writer and logs transfer progress at most once per
// second, plus a final line once the declared total has been received.
// A total of zero or less disables the percentage field.
type Writer struct {
	w           io.Writer
	logger      *slog.Logger
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

// NewWriter wraps w with progress logging against total expected bytes
func NewWriter(w io.Writer, logger *slog.Logger, total int64) *Writer {
	return &Writer{
		w:         w,
		logger:    logger,
		total:     total,
		startTime: time.Now(),
	}
}

func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.log("downloading")
	}

	if pw.total > 0 && pw.transferred >= pw.total {
		pw.log("download complete")
	}

	return n, err
}

// Transferred returns the number of bytes written so far
func (pw *Writer) Transferred() int64 {
	return pw.transferred
}

func (pw *Writer) log(msg string) {
	elapsed := time.Since(pw.startTime)
	attrs := []any{
		"transferred", pw.transferred,
		"total", pw.total,
		"elapsed", elapsed.Round(time.Millisecond),
	}
	if pw.total > 0 {
		attrs = append(attrs,
			"progress", fmt.Sprintf("%.1f%%", float64(pw.transferred)/float64(pw.total)*100),
		)
	}
	pw.logger.Info(msg, attrs...)
}
