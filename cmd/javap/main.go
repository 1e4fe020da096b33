// javap - prints the structure and bytecode of class files
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/javelin/classpath"
)

func main() {
	code := flag.Bool("c", false, "Disassemble method code")
	verbose := flag.Bool("v", false, "Print the constant pool and method code")
	classPath := flag.String("cp", ".", "Classpath used to resolve class names")
	logVerbose := flag.Bool("log", false, "Log class loading")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: javap [options] <class file | class name>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  javap -c Fib.class           # Members and bytecode\n")
		fmt.Fprintf(os.Stderr, "  javap -v -cp classes demo/Fib # Constant pool too\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	verbosity := -1
	if *logVerbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	opts := printOptions{Code: *code || *verbose, Pool: *verbose}
	loader := classpath.NewLoader(filepath.SplitList(*classPath), nil)

	status := 0
	for _, arg := range flag.Args() {
		path := arg
		if !strings.HasSuffix(arg, classpath.Suffix) {
			found, err := loader.Find(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				status = 1
				continue
			}
			path = found
		}
		cf, err := loader.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		fmt.Printf("Classfile %s\n", path)
		if err := printClass(os.Stdout, cf, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
		}
	}
	os.Exit(status)
}
