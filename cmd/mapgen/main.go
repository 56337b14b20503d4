// Package main generates a demo world and writes it as a YAML
// snapshot the client can load with -world.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fablewright/overmap/internal/world"
)

func main() {
	seed := flag.Int64("seed", 1, "terrain seed")
	out := flag.String("o", "world.yaml", "output snapshot path")
	span := flag.Int("span", 0, "chunks per world edge (0 = default)")
	flag.Parse()

	opts := world.DefaultGenOptions(*seed)
	if *span > 0 {
		opts.ChunkSpan = *span
	}

	st := world.Generate(opts)
	if err := st.SaveSnapshot(*out); err != nil {
		fmt.Fprintf(os.Stderr, "mapgen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d chunks, %d locations, %d regions (seed %d)\n",
		*out, len(st.Chunks), len(st.Locations), len(st.Regions), *seed)
}
