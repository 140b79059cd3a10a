package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/fracture/fracture"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var fragments int
	var islands bool
	var seed int64
	var concurrency int
	var mass float64
	var verbose bool
	flag.IntVar(&fragments, "fragments", 16, "number of pieces to cut the mesh into")
	flag.BoolVar(&islands, "islands", false, "split disconnected parts into separate fragments")
	flag.Int64Var(&seed, "seed", 0, "random seed for cutting planes (0 uses the time)")
	flag.IntVar(&concurrency, "concurrency", 0, "number of Goroutines (0 uses GOMAXPROCS)")
	flag.Float64Var(&mass, "mass", 1.0, "mass of the input mesh")
	flag.BoolVar(&verbose, "verbose", false, "log every cut and triangulation warning")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fracture_mesh [flags] <input.stl> <output_dir>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 || fragments < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath, outputDir := args[0], args[1]

	if concurrency == 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log.Println("Loading mesh...")
	tris, err := fracture.Load(inputPath, model3d.ReadSTL)
	essentials.Must(err)
	mesh := fracture.NewMeshModel3D(model3d.NewMeshTriangles(tris))
	volume := mesh.Volume()
	log.Printf(" - %d triangles, volume %f", mesh.NumTriangles(), volume)

	log.Println("Fracturing...")
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	fracturer := &fracture.Fracturer{
		FragmentCount: fragments,
		DetectIslands: islands,
		Concurrency:   concurrency,
		Rand:          rand.New(rand.NewSource(seed)),
		Verbose:       verbose,
	}
	pieces, err := fracturer.Fracture(ctx, mesh)
	if err != nil {
		log.Printf("Interrupted, saving %d partial pieces: %v", len(pieces), err)
	}

	log.Println("Saving fragments...")
	essentials.Must(os.MkdirAll(outputDir, 0755))
	essentials.Must(fracture.Save(
		filepath.Join(outputDir, "fragments.bin"),
		pieces,
		fracture.WriteFragments,
	))
	for i, piece := range pieces {
		pieceVolume := piece.Volume()
		log.Printf(" - fragment %d: %d triangles, volume %f, mass %f", i,
			piece.NumTriangles(), pieceVolume, fracture.FragmentMass(pieceVolume, volume, mass))
		path := filepath.Join(outputDir, fmt.Sprintf("fragment_%d.stl", i))
		essentials.Must(piece.Model3D().SaveGroupedSTL(path))
	}
}
