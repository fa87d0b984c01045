package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitSlog installs a text handler writing to stderr as the default logger.
func InitSlog(verbose bool) {
	initSlogWriter(verbose, os.Stderr)
}

// InitSlogTee is InitSlog but additionally mirrors every record into the
// given log file, truncating it at the start of the run. The returned
// function closes the file.
func InitSlogTee(verbose bool, logfile string) (func(), error) {
	f, err := os.Create(logfile)
	if err != nil {
		return nil, err
	}
	initSlogWriter(verbose, io.MultiWriter(os.Stderr, f))
	return func() { f.Close() }, nil
}

func initSlogWriter(verbose bool, w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}
