package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/fracture/fracture"
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fragment_info [flags] <fragments.bin>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

	log.Println("Loading fragments...")
	fragments, err := fracture.Load(inputPath, fracture.ReadFragments)
	essentials.Must(err)

	fmt.Println("Number of fragments:", len(fragments))
	var totalVolume float64
	for i, frag := range fragments {
		volume := frag.Volume()
		totalVolume += volume
		var capTriangles int
		if len(frag.Submeshes) > fracture.CutSubmesh {
			capTriangles = len(frag.Submeshes[fracture.CutSubmesh]) / 3
		}
		fmt.Printf("Fragment %d: triangles=%d cap_triangles=%d volume=%f watertight=%v\n",
			i, frag.NumTriangles(), capTriangles, volume, !frag.Model3D().NeedsRepair())
	}
	fmt.Println("Total volume:", totalVolume)
}
