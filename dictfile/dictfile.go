/*
Package dictfile reads and writes NumCode dictionary files.

A dictionary file is tab-separated text, one entry per line:

	1	de	3817466
	2	.	2941213
	3	la	2290012
	 ...

Columns are ID, token and occurrence count. Lines are sorted by descending
count and IDs count up from 1 without gaps, i.e., the ID of a token is its
frequency rank. Corpus tooling usually prepends a header row

	id	token	count

which is skipped, as are blank lines. Further columns are ignored.

Dictionaries for all languages are usually kept in one directory, using the
file names of FileName. Files may be compressed with gzip or zstd, indicated
by a ".gz" or ".zst" suffix.

Example usage:

	f, _ := os.Open("path/to/dictionaries/GOLD_ES.txt")
	defer f.Close()

	dict, err := dictfile.LoadDictionary(numcode.Spanish, f)
*/
package dictfile

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode.dictfile'
func tracer() tracing.Trace {
	return tracing.Select("numcode.dictfile")
}

const maxLineLength = 1 << 20

// ParseError reports a malformed line of a dictionary file.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dictionary line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return numcode.ErrInvalidDictionary }

// Reader streams entries from a dictionary file.
// It implements numcode.EntryReader.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	entries int
}

// NewReader creates a reader for tab-separated dictionary data.
func NewReader(reader io.Reader) *Reader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &Reader{scanner: scanner}
}

// Next returns the next entry. It returns io.EOF when exhausted.
func (r *Reader) Next() (numcode.Entry, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if r.entries == 0 && !isNumeric(strings.TrimSpace(fields[0])) {
			tracer().Debugf("skipping header row %q", line)
			continue
		}
		entry, err := r.decodeLine(fields)
		if err != nil {
			return numcode.Entry{}, err
		}
		r.entries++
		return entry, nil
	}
	if err := r.scanner.Err(); err != nil {
		return numcode.Entry{}, err
	}
	return numcode.Entry{}, io.EOF
}

// Line returns the number of the line read last.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) decodeLine(fields []string) (numcode.Entry, error) {
	if len(fields) < 3 {
		return numcode.Entry{}, &ParseError{Line: r.line,
			Reason: fmt.Sprintf("expected 3 tab-separated columns, found %d", len(fields))}
	}
	id, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return numcode.Entry{}, &ParseError{Line: r.line, Reason: "invalid ID " + strconv.Quote(fields[0])}
	}
	count, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return numcode.Entry{}, &ParseError{Line: r.line, Reason: "invalid count " + strconv.Quote(fields[2])}
	}
	token := strings.TrimSpace(fields[1])
	if token == "" {
		return numcode.Entry{}, &ParseError{Line: r.line, Reason: "empty token"}
	}
	return numcode.Entry{ID: uint32(id), Token: token, Count: count}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// LoadDictionary reads a dictionary file and returns the dictionary
// for language lang.
func LoadDictionary(lang numcode.LanguageTag, reader io.Reader) (*numcode.Dictionary, error) {
	return numcode.LoadDictionary(lang, NewReader(reader))
}

// WriteEntries writes entries in dictionary file format, without a
// header row.
func WriteEntries(w io.Writer, entries iter.Seq[numcode.Entry]) error {
	bw := bufio.NewWriter(w)
	for e := range entries {
		if strings.ContainsAny(e.Token, "\t\r\n") {
			return fmt.Errorf("token %q contains a line or column separator: %w", e.Token, numcode.ErrInvalidDictionary)
		}
		if _, err := fmt.Fprintf(bw, "%d\t%s\t%d\n", e.ID, e.Token, e.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
