package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/fracture/fracture"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
)

func main() {
	var gridSize int
	var imageSize int
	var explode float64
	flag.IntVar(&gridSize, "grid-size", 3, "grid size (used for rows and columns)")
	flag.IntVar(&imageSize, "image-size", 300, "size of each image in the grid")
	flag.Float64Var(&explode, "explode", 0.5,
		"fraction of each fragment's offset from the center to push it outward")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: render_fragments [flags] <fragments.bin> <output.png>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	log.Println("Loading fragments...")
	fragments, err := fracture.Load(inputPath, fracture.ReadFragments)
	essentials.Must(err)
	if len(fragments) == 0 {
		essentials.Die("no fragments to render")
	}

	log.Println("Creating renderable object...")
	tris := explodedTriangles(fragments, explode)
	collider := model3d.MeshToCollider(model3d.NewMeshTriangles(tris))
	object := render3d.Objectify(collider, nil)

	log.Println("Rendering...")
	essentials.Must(
		render3d.SaveRandomGrid(outputPath, object, gridSize, gridSize, imageSize, nil),
	)
}

// explodedTriangles moves every fragment away from the center of all
// fragments, so that cut faces become visible.
func explodedTriangles(fragments []*fracture.Mesh, explode float64) []*model3d.Triangle {
	var center model3d.Coord3D
	var count int
	for _, frag := range fragments {
		for _, v := range frag.Vertices {
			center = center.Add(v.Position)
			count++
		}
	}
	if count > 0 {
		center = center.Scale(1 / float64(count))
	}

	var res []*model3d.Triangle
	for _, frag := range fragments {
		fragCenter := frag.Min().Mid(frag.Max())
		offset := fragCenter.Sub(center).Scale(explode)
		for s, indices := range frag.Submeshes {
			for t := 0; t < len(indices)/3; t++ {
				tri := frag.Triangle(s, t)
				for i := range tri {
					tri[i] = tri[i].Add(offset)
				}
				if tri.Area() > 0 {
					res = append(res, tri)
				}
			}
		}
	}
	return res
}
