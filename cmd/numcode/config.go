package main

import (
	"slices"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// Configuration keys. Trace levels are configured per tracer below
// "tracelevel", e.g.
//
//	tracelevel:
//	    numcode.grid: Debug
//
// in the NestedText file ~/.config/numcode/config.nt.
const (
	keyDictionaries = "dictionaries"
	keyLanguage     = "language"
	keyDataType     = "datatype"
	keyListen       = "listen"
	keyTraceLevel   = "tracelevel"
)

// tracers lists the trace keys of all packages.
var tracers = []string{"numcode", "numcode.grid", "numcode.wire", "numcode.dictfile",
	"numcode.pipeline", "numcode.server"}

// envKeys are the keys settable by NUMCODE_* environment variables.
var envKeys = []string{keyDictionaries, keyLanguage, keyDataType, keyListen}

// loadConfig assembles the configuration from defaults, the configuration
// file, the environment and command-line flags, later sources overriding
// earlier ones.
func loadConfig(flags map[string]string) *koanfadapter.KConf {
	k := koanf.New("/")
	defaults := map[string]interface{}{
		keyDictionaries:         "dictionaries",
		keyListen:               ":8080",
		keyTraceLevel + "/root": "Error",
	}
	for _, t := range tracers {
		defaults[keyTraceLevel+"/"+t] = "Error"
	}
	k.Load(confmap.Provider(defaults, "/"), nil)
	conf := koanfadapter.New(k, "numcode", []string{"nt"})
	conf.InitDefaults()
	k.Load(env.Provider("NUMCODE_", "/", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "NUMCODE_"))
		if !slices.Contains(envKeys, key) {
			return ""
		}
		return key
	}), nil)
	for key, value := range flags {
		if key == "trace" {
			for _, t := range tracers {
				conf.Set(keyTraceLevel+"/"+t, value)
			}
			continue
		}
		conf.Set(key, value)
	}
	return conf
}

// setupTracing connects the tracers of all packages to the Go log package,
// with trace levels taken from conf.
func setupTracing(conf *koanfadapter.KConf) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, keyTraceLevel, trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
