// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/ezrec/a832/expr"
)

func main() {
	var defs string
	var tree bool
	var verbose bool

	flag.StringVar(&defs, "d", "", ".star file of equates")
	flag.BoolVar(&tree, "t", false, "Print the parsed expression tree")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: No expressions", os.Args[0])
	}

	equates := expr.EquateMap{}
	if len(defs) != 0 {
		var err error
		equates, err = expr.LoadEquates(defs, nil, nil)
		if err != nil {
			log.Fatalf("%v: %v", defs, err)
		}
		if verbose {
			log.Printf("%v: %d equates", defs, len(equates))
		}
	}

	for _, text := range flag.Args() {
		parsed, err := expr.Parse(text)
		if err != nil {
			log.Fatal(err)
		}

		if tree {
			fmt.Println(parsed)
		}

		if verbose {
			log.Printf("%v: uses %v", text, slices.Collect(parsed.Identifiers()))
		}

		value, err := expr.Evaluate(parsed, equates)
		if err != nil {
			log.Fatalf("%v: %v", text, err)
		}

		fmt.Printf("%d 0x%08x\n", value, uint32(value))
	}
}
