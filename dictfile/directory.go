package dictfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/npillmayer/numcode"
	"golang.org/x/sync/errgroup"
)

var fileNames = map[numcode.LanguageTag]string{
	numcode.Arabic:     "GOLD_AR.txt",
	numcode.Chinese:    "GOLD_ZH.txt",
	numcode.French:     "GOLD_FR.txt",
	numcode.Portuguese: "GOLD_PT.txt",
	numcode.Spanish:    "GOLD_ES.txt",
	numcode.English:    "GOLD_EN.txt",
}

// Compression suffixes recognized by Open and Create.
const (
	GzipSuffix = ".gz"
	ZstdSuffix = ".zst"
)

// FileName returns the conventional (uncompressed) file name of the
// dictionary for lang.
func FileName(lang numcode.LanguageTag) string {
	return fileNames[lang]
}

// Open opens a dictionary file, decompressing it if its name ends in
// GzipSuffix or ZstdSuffix.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, GzipSuffix):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &readCloser{Reader: zr, close: func() error { zr.Close(); return f.Close() }}, nil
	case strings.HasSuffix(path, ZstdSuffix):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &readCloser{Reader: zr, close: func() error { zr.Close(); return f.Close() }}, nil
	}
	return f, nil
}

// Create creates a dictionary file, compressing it if its name ends in
// GzipSuffix or ZstdSuffix. Closing the writer flushes the compressor.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, GzipSuffix):
		zw := gzip.NewWriter(f)
		return &writeCloser{Writer: zw, close: func() error { return errors.Join(zw.Close(), f.Close()) }}, nil
	case strings.HasSuffix(path, ZstdSuffix):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{Writer: zw, close: func() error { return errors.Join(zw.Close(), f.Close()) }}, nil
	}
	return f, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc *readCloser) Close() error { return rc.close() }

type writeCloser struct {
	io.Writer
	close func() error
}

func (wc *writeCloser) Close() error { return wc.close() }

// LoadFile loads the dictionary for lang from path.
func LoadFile(ctx context.Context, lang numcode.LanguageTag, path string) (*numcode.Dictionary, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	dict, err := LoadDictionary(lang, &contextReader{ctx: ctx, r: rc})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Infof("%s: %d tokens from %s", lang, dict.Len(), filepath.Base(path))
	return dict, nil
}

// WriteFile writes entries to a (possibly compressed) dictionary file.
func WriteFile(path string, entries iter.Seq[numcode.Entry]) error {
	wc, err := Create(path)
	if err != nil {
		return err
	}
	if err := WriteEntries(wc, entries); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// Find locates the dictionary file for lang in dir, trying the plain file
// name first, then the zstd and gzip variants.
func Find(dir string, lang numcode.LanguageTag) (string, bool) {
	name, ok := fileNames[lang]
	if !ok {
		return "", false
	}
	for _, suffix := range []string{"", ZstdSuffix, GzipSuffix} {
		path := filepath.Join(dir, name+suffix)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// LoadDirectory loads the dictionaries of all languages found in dir,
// in parallel. Languages without a dictionary file are skipped. If langs
// are given, only these languages are loaded and each of them must be
// present.
func LoadDirectory(ctx context.Context, dir string, langs ...numcode.LanguageTag) (*numcode.Registry, error) {
	required := len(langs) > 0
	if !required {
		langs = numcode.Languages
	}
	paths := make([]string, len(langs))
	for i, lang := range langs {
		path, ok := Find(dir, lang)
		if !ok && required {
			return nil, fmt.Errorf("%s: %w: no dictionary %s: %w", dir, numcode.ErrUnsupportedLanguage,
				FileName(lang), fs.ErrNotExist)
		} else if !ok {
			tracer().Infof("no dictionary for %s in %s", lang, dir)
		}
		paths[i] = path
	}
	dicts := make([]*numcode.Dictionary, len(langs))
	g, ctx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		if paths[i] == "" {
			continue
		}
		g.Go(func() error {
			dict, err := LoadFile(ctx, lang, paths[i])
			dicts[i] = dict
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	loaded := dicts[:0]
	for _, d := range dicts {
		if d != nil {
			loaded = append(loaded, d)
		}
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no dictionaries found in %s: %w", dir, fs.ErrNotExist)
	}
	return numcode.NewRegistry(loaded...)
}

// contextReader stops reading once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
