// Javelin CLI - loads class files from a classpath and runs a static method
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/javelin/manifest"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	dir := flag.String("C", ".", "Project directory to search for javelin.toml")
	classPath := flag.String("cp", "", "Classpath (list of directories separated by "+string(filepath.ListSeparator)+")")
	className := flag.String("class", "", "Main class (internal name, e.g. demo/Fib)")
	method := flag.String("m", "", "Static method to run (default \"main\")")
	cachePath := flag.String("cache", "", "Class cache database path")
	maxDepth := flag.Int("max-depth", 0, "Maximum call depth (0 = unlimited)")
	maxSteps := flag.Int64("max-steps", 0, "Maximum executed instructions (0 = unlimited)")
	noStackCheck := flag.Bool("no-stack-check", false, "Do not enforce declared max stack")
	trace := flag.Bool("trace", false, "Log every executed instruction")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: javelin [options] [int args...]\n\n")
		fmt.Fprintf(os.Stderr, "Loads class files from the classpath and runs a static method.\n")
		fmt.Fprintf(os.Stderr, "Settings come from javelin.toml when present; flags override them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  javelin                             # Run [run] from javelin.toml\n")
		fmt.Fprintf(os.Stderr, "  javelin -cp classes -class Fib 20   # Run Fib.main(20)\n")
		fmt.Fprintf(os.Stderr, "  javelin -class Fib -m fib -trace 5  # Trace Fib.fib(5)\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *trace {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fatal(err)
	}

	opts := defaultOptions(m)
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["cp"] {
		opts.classpath = filepath.SplitList(*classPath)
	}
	if set["class"] {
		opts.className = *className
	}
	if set["m"] {
		opts.method = *method
	}
	if set["cache"] {
		opts.cachePath = *cachePath
	}
	if set["max-depth"] {
		opts.config.MaxCallDepth = *maxDepth
	}
	if set["max-steps"] {
		opts.config.MaxSteps = *maxSteps
	}
	if set["no-stack-check"] {
		opts.config.CheckMaxStack = !*noStackCheck
	}
	if set["trace"] {
		opts.config.Trace = *trace
	}
	if flag.NArg() > 0 {
		opts.args = opts.args[:0]
		for _, a := range flag.Args() {
			n, err := strconv.ParseInt(a, 10, 32)
			if err != nil {
				fatal(fmt.Errorf("argument %q is not an int: %w", a, err))
			}
			opts.args = append(opts.args, int32(n))
		}
	}

	if opts.className == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
