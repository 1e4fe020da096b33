package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/chazu/javelin/classcache"
	"github.com/chazu/javelin/classpath"
	"github.com/chazu/javelin/manifest"
	"github.com/chazu/javelin/vm"
)

var log = commonlog.GetLogger("javelin")

// options is everything needed to run one entry point.
type options struct {
	manifest  *manifest.Manifest // nil when no javelin.toml was found
	classpath []string
	className string
	method    string
	args      []int32
	cachePath string
	config    vm.Config
}

// defaultOptions derives options from m, or from built-in defaults when m
// is nil.
func defaultOptions(m *manifest.Manifest) options {
	if m == nil {
		return options{
			classpath: []string{"."},
			method:    "main",
			config:    vm.DefaultConfig(),
		}
	}
	return options{
		manifest:  m,
		classpath: m.ClasspathDirs(),
		className: m.Run.Class,
		method:    m.Run.Method,
		args:      append([]int32(nil), m.Run.Args...),
		cachePath: m.CachePath(),
		config:    m.RuntimeConfig(),
	}
}

// run loads the classpath, invokes the entry point and writes a non-void
// result to out.
func run(opts options, out io.Writer) error {
	dirs := opts.classpath
	if opts.manifest != nil && len(opts.manifest.Dependencies) > 0 {
		deps, err := manifest.NewResolver(opts.manifest).Resolve()
		if err != nil {
			return err
		}
		for _, rd := range deps {
			dirs = append(dirs, rd.ClasspathDirs()...)
		}
	}

	loader := classpath.NewLoader(dirs, nil)
	if opts.cachePath != "" {
		cache, err := classcache.Open(opts.cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		loader.Cache = cache
	}

	table := vm.NewClassTable()
	n, err := loader.LoadAll(table)
	if err != nil {
		return err
	}
	log.Infof("loaded %d classes", n)

	opts.config.Stdout = out
	interp := vm.NewInterpreter(table, opts.config)

	args := make([]vm.Value, len(opts.args))
	for i, a := range opts.args {
		args[i] = vm.FromInt(a)
	}

	result, err := interp.Run(opts.className, opts.method, args)
	if err != nil {
		return err
	}
	log.Infof("executed %d instructions", interp.Steps())

	switch result.Type {
	case vm.ResultThrow:
		return fmt.Errorf("uncaught throw of %s", result.Value)
	case vm.ResultValue:
		_, err = fmt.Fprintln(out, display(result.Value))
		return err
	}
	return nil
}

// display formats a returned value the way the platform prints it.
func display(v vm.Value) string {
	switch v.Kind() {
	case vm.KindLong:
		n, _ := v.Int64()
		return strconv.FormatInt(n, 10)
	case vm.KindInt, vm.KindShort, vm.KindByte:
		n, _ := v.Int32()
		return strconv.Itoa(int(n))
	case vm.KindChar:
		n, _ := v.Int32()
		return string(rune(n))
	case vm.KindFloat:
		f, _ := v.Float32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case vm.KindDouble:
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case vm.KindNull:
		return "null"
	}
	return v.String()
}
