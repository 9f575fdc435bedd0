// numcode - NumCode codec CLI tool
//
// Usage:
//
//	numcode encode [text]          Encode text to a NumCode stream
//	numcode decode [numcode]       Decode a NumCode stream (requires --lang)
//	numcode grid [text]            Print text as a strip of ideogram grids
//	numcode strip [file]           Decode a strip printed by 'grid'
//	numcode wire [text]            Encode text to a binary wire frame
//	numcode unwire [file]          Decode a binary wire frame
//	numcode verify [text]          Round-trip text through grids and wire
//	numcode suggest <token>        Suggest dictionary tokens (requires --lang)
//	numcode langs                  List loaded dictionaries
//	numcode serve                  Start the HTTP API
//
// Flags (may appear anywhere after the command):
//
//	--dict=DIR        dictionary directory (config key "dictionaries")
//	--lang=TAG        language: ar, zh, fr, pt, es, eng; detected if unset
//	--datatype=TYPE   data type announced in grids and frames: bin, enc, so, im
//	--listen=ADDR     listen address for 'serve'
//	--out=FILE        write binary output of 'wire' to FILE instead of hex to stdout
//	--trace=LEVEL     trace level for all packages: Error, Info, Debug
//
// If no text or file is given, input is read from stdin.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/numcode/dictfile"
	"github.com/npillmayer/numcode/grid"
	"github.com/npillmayer/numcode/pipeline"
	"github.com/npillmayer/numcode/server"
	"github.com/npillmayer/numcode/suggest"
	"github.com/npillmayer/numcode/wire"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
)

const version = "0.6.8"

var flagKeys = map[string]string{
	"dict":     keyDictionaries,
	"lang":     keyLanguage,
	"datatype": keyDataType,
	"listen":   keyListen,
	"trace":    "trace",
	"out":      "out",
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return
	case "version":
		fmt.Printf("numcode %s (wire frame v%d)\n", version, wire.Version)
		return
	}
	flags, args := parseArgs(os.Args[2:])
	conf := loadConfig(flags)
	if err := setupTracing(conf); err != nil {
		fatal("tracing: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, conf)
	if err != nil {
		fatal("%v", err)
	}
	switch cmd {
	case "encode":
		err = app.encode(readText(args))
	case "decode":
		err = app.decode(readText(args))
	case "grid":
		err = app.grid(readText(args))
	case "strip":
		err = app.strip(openInput(args))
	case "wire":
		err = app.wire(readText(args), flags["out"])
	case "unwire":
		err = app.unwire(openInput(args))
	case "verify":
		err = app.verify(readText(args))
	case "suggest":
		err = app.suggest(args)
	case "langs":
		app.langs()
	case "serve":
		err = app.serve(ctx, conf.GetString(keyListen))
	default:
		fmt.Fprintf(os.Stderr, "numcode: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal("%s: %v", cmd, err)
	}
}

// parseArgs splits arguments into --key=value flags and positional arguments.
func parseArgs(argv []string) (map[string]string, []string) {
	flags := make(map[string]string)
	var args []string
	for _, arg := range argv {
		if !strings.HasPrefix(arg, "--") {
			args = append(args, arg)
			continue
		}
		name, value, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		key, ok := flagKeys[name]
		if !ok {
			fatal("unknown flag --%s", name)
		}
		flags[key] = value
	}
	return flags, args
}

type app struct {
	pipeline *pipeline.Pipeline
	lang     numcode.LanguageTag
}

func newApp(ctx context.Context, conf *koanfadapter.KConf) (*app, error) {
	lang, err := numcode.ParseLanguageTag(conf.GetString(keyLanguage))
	if err != nil && conf.GetString(keyLanguage) != "" {
		return nil, err
	}
	dt, err := numcode.ParseDataType(conf.GetString(keyDataType))
	if err != nil {
		return nil, err
	}
	t0 := time.Now()
	reg, err := dictfile.LoadDirectory(ctx, conf.GetString(keyDictionaries))
	if err != nil {
		return nil, err
	}
	tracing.Infof("loaded %d dictionaries in %v", reg.Len(), time.Since(t0))
	return &app{
		pipeline: pipeline.New(reg, pipeline.WithDataType(dt)),
		lang:     lang,
	}, nil
}

func (a *app) encode(text string) error {
	msg, err := a.pipeline.Encode(text, a.lang)
	if err != nil {
		return err
	}
	fmt.Printf("Language: %s\n", msg.Language)
	fmt.Printf("Units:    %d\n", len(msg.Stream))
	fmt.Printf("NumCode:  %s\n", msg.Stream)
	return nil
}

func (a *app) decode(text string) error {
	if a.lang == "" {
		return errors.New("decoding requires --lang")
	}
	stream, err := numcode.ParseStream(text)
	if err != nil {
		return err
	}
	res, err := a.pipeline.Decode(pipeline.Message{Language: a.lang, Stream: stream})
	if err != nil {
		return err
	}
	fmt.Println(res.Text)
	return nil
}

func (a *app) grid(text string) error {
	strip, err := a.pipeline.EncodeGrid(text, a.lang)
	if err != nil {
		return err
	}
	for _, g := range strip {
		fmt.Println(g.String())
	}
	return nil
}

// strip reads grids separated by blank lines, as printed by 'grid'.
func (a *app) strip(input io.ReadCloser) error {
	defer input.Close()
	var strip []grid.Grid
	var block strings.Builder
	flush := func() error {
		if strings.TrimSpace(block.String()) == "" {
			return nil
		}
		g, err := grid.Parse(block.String())
		if err != nil {
			return fmt.Errorf("grid %d: %w", len(strip), err)
		}
		strip = append(strip, g)
		block.Reset()
		return nil
	}
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		block.WriteString(scanner.Text())
		block.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	msg, err := pipeline.ReadStrip(strip)
	if err != nil {
		return err
	}
	if msg.Language == "" {
		msg.Language = a.lang
	}
	fmt.Printf("Language: %s\n", msg.Language)
	if msg.DataType != numcode.PlainText {
		fmt.Printf("Data type: %s\n", msg.DataType)
	}
	fmt.Printf("NumCode:  %s\n", msg.Stream)
	res, err := a.pipeline.Decode(msg)
	if err != nil {
		return err
	}
	fmt.Printf("Decoded:  %s\n", res.Text)
	return nil
}

func (a *app) wire(text, out string) error {
	frame, err := a.pipeline.EncodeWire(text, a.lang)
	if err != nil {
		return err
	}
	if out != "" {
		return os.WriteFile(out, frame, 0o644)
	}
	fmt.Println(hex.EncodeToString(frame))
	fmt.Fprintf(os.Stderr, "%d bytes for %d bytes of text (%.0f%%)\n",
		len(frame), len(text), 100*float64(len(frame))/float64(max(1, len(text))))
	return nil
}

func (a *app) unwire(input io.ReadCloser) error {
	defer input.Close()
	data, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(string(data)); isHex(s) {
		if data, err = hex.DecodeString(s); err != nil {
			return err
		}
	}
	res, err := a.pipeline.DecodeWire(data)
	if err != nil {
		return err
	}
	fmt.Printf("Language: %s\n", res.Language)
	fmt.Printf("Decoded:  %s\n", res.Text)
	return nil
}

func (a *app) verify(text string) error {
	v, err := a.pipeline.Verify(text, a.lang)
	if err != nil {
		return err
	}
	fmt.Printf("Language:     %s\n", v.Message.Language)
	fmt.Printf("NumCode:      %s\n", v.Message.Stream)
	fmt.Printf("Grids:        %d\n", len(v.Strip))
	fmt.Printf("Wire:         %d bytes\n", len(v.Frame))
	fmt.Printf("Decoded:      %s\n", v.Result.Text)
	if v.OK() {
		fmt.Println("Verification: 100% PERFECT")
		return nil
	}
	fmt.Printf("Verification: ERROR (streams match: %v, tokens match: %v)\n", v.StreamsMatch, v.TokensMatch)
	return errors.New("round trip failed")
}

func (a *app) suggest(args []string) error {
	if a.lang == "" || len(args) == 0 {
		return errors.New("usage: numcode suggest --lang=TAG <token>")
	}
	dict, err := a.pipeline.Registry().Dictionary(a.lang)
	if err != nil {
		return err
	}
	ix := suggest.NewIndex(dict)
	for _, s := range ix.Suggest(args[0], 10) {
		fmt.Printf("%8d  %s\n", s.ID, s.Token)
	}
	return nil
}

func (a *app) langs() {
	reg := a.pipeline.Registry()
	for _, lang := range reg.Languages() {
		dict, _ := reg.Dictionary(lang)
		fmt.Printf("%-4s %8d tokens\n", lang, dict.Len())
	}
}

func (a *app) serve(ctx context.Context, addr string) error {
	e := server.New(server.NewHandler(a.pipeline))
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		e.Shutdown(shutdown)
	}()
	tracing.Infof("serving NumCode API on %s", addr)
	fmt.Fprintf(os.Stderr, "serving NumCode API on %s\n", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --- Input helpers ---

func readText(args []string) string {
	if len(args) > 0 && args[0] != "-" {
		return strings.Join(args, " ")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("read stdin: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func openInput(args []string) io.ReadCloser {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		fatal("open file: %v", err)
	}
	return f
}

func isHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "numcode: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `numcode - NumCode codec CLI tool

Usage:
  numcode encode [text]          Encode text to a NumCode stream
  numcode decode [numcode]       Decode a NumCode stream (requires --lang)
  numcode grid [text]            Print text as a strip of ideogram grids
  numcode strip [file]           Decode a strip printed by 'grid'
  numcode wire [text]            Encode text to a binary wire frame
  numcode unwire [file]          Decode a binary wire frame
  numcode verify [text]          Round-trip text through grids and wire
  numcode suggest <token>        Suggest dictionary tokens (requires --lang)
  numcode langs                  List loaded dictionaries
  numcode serve                  Start the HTTP API
  numcode version                Print version info

Flags:
  --dict=DIR  --lang=TAG  --datatype=TYPE  --listen=ADDR  --out=FILE  --trace=LEVEL`)
}
