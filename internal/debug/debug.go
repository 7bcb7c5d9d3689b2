// Package debug provides opt-in tracing for the file, row group, and page
// engines. It is disabled by default; set PARQUET_DEBUG=1 to turn it on.
// None of the example codec repos pull in a structured logging dependency
// for this layer, so tracing here stays a thin fmt.Printf wrapper, the same
// shape the teacher used it in.
package debug

import (
	"fmt"
	"io"
	"os"
)

// Enabled reports whether PARQUET_DEBUG tracing is turned on. It is
// evaluated once at package init; the environment variable is not expected
// to change while the process runs.
var Enabled = os.Getenv("PARQUET_DEBUG") != ""

// Format prints a trace line when Enabled is true; it is a no-op otherwise.
func Format(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(os.Stderr, "parquet: "+format+"\n", args...)
	}
}

// Reader wraps reader with one that traces every Read call through Format
// when tracing is enabled.
func Reader(reader io.Reader, prefix string) io.Reader {
	if !Enabled {
		return reader
	}
	return &ioReader{reader: reader, prefix: prefix}
}

type ioReader struct {
	reader io.Reader
	prefix string
	offset int64
}

func (d *ioReader) Read(b []byte) (int, error) {
	n, err := d.reader.Read(b)
	Format("%s: Read(%d) @%d => %d %v", d.prefix, len(b), d.offset, n, err)
	d.offset += int64(n)
	return n, err
}

// Writer wraps writer with one that traces every Write call through Format
// when tracing is enabled.
func Writer(writer io.Writer, prefix string) io.Writer {
	if !Enabled {
		return writer
	}
	return &ioWriter{writer: writer, prefix: prefix}
}

type ioWriter struct {
	writer io.Writer
	prefix string
	offset int64
}

func (d *ioWriter) Write(b []byte) (int, error) {
	n, err := d.writer.Write(b)
	Format("%s: Write(%d) @%d => %d %v", d.prefix, len(b), d.offset, n, err)
	d.offset += int64(n)
	return n, err
}
