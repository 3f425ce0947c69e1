package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/jyane/lazyk/lazyk"
)

var (
	inline = flag.Bool("e", false, "treat the first source argument as inline program text")
	debug  = flag.Bool("debug", false, "run the interactive debug console")
)

// source is one program source: a file path, or text passed inline.
type source struct {
	name string
	text []byte
}

// collectSources walks the remaining arguments in order. "-e" consumes
// the following argument as inline text, anything else is a file path,
// so literals and paths chain in the order they were given.
func collectSources() []source {
	args := flag.Args()
	var sources []source
	i := 0
	if *inline && len(args) > 0 {
		sources = append(sources, source{name: "-e", text: []byte(args[0])})
		i = 1
	}
	for ; i < len(args); i++ {
		if args[i] == "-e" {
			i++
			if i == len(args) {
				glog.Exitf("-e requires a source argument")
			}
			sources = append(sources, source{name: "-e", text: []byte(args[i])})
			continue
		}
		text, err := os.ReadFile(args[i])
		if err != nil {
			glog.Exitf("cannot read %s: %v", args[i], err)
		}
		sources = append(sources, source{name: args[i], text: text})
	}
	return sources
}

func main() {
	flag.Parse()
	defer glog.Flush()
	sources := collectSources()
	if len(sources) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program file | -e program>...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	exprs := make([]*lazyk.Expr, 0, len(sources))
	for _, s := range sources {
		e, err := lazyk.Parse(s.text)
		if err != nil {
			glog.Exitf("parse error: %s: %v", s.name, err)
		}
		exprs = append(exprs, e)
	}
	runner := lazyk.NewRunner(lazyk.Chain(exprs), os.Stdin, os.Stdout)
	var console lazyk.Console = runner
	if *debug {
		console = lazyk.NewDebugRunner(runner)
	}
	if err := console.Run(); err != nil {
		glog.Exitf("%v", err)
	}
}
