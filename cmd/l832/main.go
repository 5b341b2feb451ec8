// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/ezrec/a832/linker"
)

// writeImage links into memory, and only writes output ("-" for stdout)
// once the link has succeeded.
func writeImage(lnk *linker.Linker, output string, base int) (end int, err error) {
	var image bytes.Buffer
	end, err = lnk.Link(&image, base)
	if err != nil {
		return
	}

	if output == "-" {
		_, err = image.WriteTo(os.Stdout)
	} else {
		err = os.WriteFile(output, image.Bytes(), 0o644)
	}
	return
}

func main() {
	var output string
	var base int
	var passes int
	var showMap bool
	var verbose bool

	flag.StringVar(&output, "o", "-", "Image output")
	flag.IntVar(&base, "b", 0, "Base address of the image")
	flag.IntVar(&passes, "n", linker.DefaultMaxPasses, "Maximum layout passes")
	flag.BoolVar(&showMap, "m", false, "Print the link map to stderr")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: No object files", os.Args[0])
	}

	lnk := &linker.Linker{
		Verbose:   verbose,
		MaxPasses: passes,
	}

	for _, name := range flag.Args() {
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		err = lnk.Load(name, inf)
		inf.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	end, err := writeImage(lnk, output, base)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if verbose {
		log.Printf("%v: 0x%x..0x%x, %d passes", output, base, end, lnk.Passes)
	}

	if showMap {
		err = lnk.Map().Print(os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
	}
}
