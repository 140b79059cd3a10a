package fracture

import (
	"context"
	"log"
	"math/rand"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// Fracture splits a mesh into fragmentCount pieces with random planes, using
// the global random source.
//
// If detectIslands is true, pieces made of several disconnected parts are
// further split into one fragment per part, so more than fragmentCount
// fragments may be returned.
func Fracture(m *Mesh, fragmentCount int, detectIslands bool) []*Mesh {
	f := &Fracturer{FragmentCount: fragmentCount, DetectIslands: detectIslands}
	res, _ := f.Fracture(context.Background(), m)
	return res
}

// A Fracturer repeatedly bisects a mesh with random planes.
//
// Pieces are cut in first-in first-out order, always through the center of
// their bounding box, until FragmentCount pieces exist.
type Fracturer struct {
	// FragmentCount is the number of pieces to cut the mesh into.
	// It must be at least 1.
	FragmentCount int

	// DetectIslands, if true, splits each piece into its connected
	// components.
	DetectIslands bool

	// Concurrency is the maximum number of Goroutines to use.
	// If it is 0 or 1, pieces are cut sequentially.
	Concurrency int

	// Rand is the source of plane normals.
	// If nil, the global source from math/rand is used.
	Rand *rand.Rand

	// Verbose, if true, logs every cut.
	Verbose bool
}

type indexedPiece struct {
	Index int
	Data  *MeshData
}

// Fracture cuts m into pieces.
//
// The cutting planes only depend on the random source, so results are the
// same regardless of Concurrency.
//
// If ctx is cancelled, the pieces produced so far are returned along with
// the context's error. Pieces without triangles are dropped.
func (f *Fracturer) Fracture(ctx context.Context, m *Mesh) ([]*Mesh, error) {
	if f.FragmentCount < 1 {
		panic("fragment count must be at least 1")
	}
	normals := f.sliceNormals()
	root := indexedPiece{Index: 0, Data: NewMeshData(m)}

	var pieces []indexedPiece
	var err error
	if f.Concurrency > 1 {
		pieces, err = f.fractureParallel(ctx, root, normals)
	} else {
		pieces, err = f.fractureSequential(ctx, root, normals)
	}

	meshes := make([]*Mesh, 0, len(pieces))
	for _, piece := range pieces {
		if mesh := piece.Data.ToMesh(); mesh.NumTriangles() > 0 {
			meshes = append(meshes, mesh)
		}
	}
	if f.DetectIslands {
		meshes = f.splitIslands(meshes)
	}
	return meshes, err
}

// sliceNormals draws one plane normal per cut. The normals are not
// normalized, matching a uniform draw from the [-1, 1] cube.
func (f *Fracturer) sliceNormals() []model3d.Coord3D {
	sample := rand.Float64
	if f.Rand != nil {
		sample = f.Rand.Float64
	}
	res := make([]model3d.Coord3D, f.FragmentCount-1)
	for i := range res {
		x := sample()*2 - 1
		y := sample()*2 - 1
		z := sample()*2 - 1
		res[i] = model3d.XYZ(x, y, z)
	}
	return res
}

// fractureSequential cuts pieces in FIFO order.
//
// The cuts form a binary tree in which piece i is cut by normals[i] into
// pieces 2i+1 and 2i+2. The FIFO order visits pieces in index order, so the
// final pieces are exactly those with index >= len(normals).
func (f *Fracturer) fractureSequential(ctx context.Context, root indexedPiece,
	normals []model3d.Coord3D) ([]indexedPiece, error) {
	slicer := &Slicer{Verbose: f.Verbose}
	queue := []indexedPiece{root}
	for range normals {
		if err := ctx.Err(); err != nil {
			return queue, err
		}
		piece := queue[0]
		queue = queue[1:]
		top, bottom := f.cut(slicer, piece, normals[piece.Index])
		queue = append(queue, top, bottom)
	}
	return queue, nil
}

func (f *Fracturer) fractureParallel(ctx context.Context, root indexedPiece,
	normals []model3d.Coord3D) ([]indexedPiece, error) {
	slicer := &Slicer{Verbose: f.Verbose}
	queue := newForkJoin[[]indexedPiece](f.Concurrency)

	var split func(piece indexedPiece) []indexedPiece
	split = func(piece indexedPiece) []indexedPiece {
		if piece.Index >= len(normals) || ctx.Err() != nil {
			return []indexedPiece{piece}
		}
		top, bottom := f.cut(slicer, piece, normals[piece.Index])
		res1, res2 := queue.Fork(
			func() []indexedPiece { return split(top) },
			func() []indexedPiece { return split(bottom) },
		)
		return append(res1, res2...)
	}
	pieces := queue.Run(func() []indexedPiece {
		return split(root)
	})

	slices.SortFunc(pieces, func(a, b indexedPiece) bool {
		return a.Index < b.Index
	})
	return pieces, ctx.Err()
}

func (f *Fracturer) cut(slicer *Slicer, piece indexedPiece,
	normal model3d.Coord3D) (top, bottom indexedPiece) {
	topData, bottomData := slicer.Slice(piece.Data, normal, piece.Data.Bounds.Center())
	if f.Verbose {
		log.Printf("cut piece %d: top=%d triangles bottom=%d triangles", piece.Index,
			topData.TriangleIndexCount()/3, bottomData.TriangleIndexCount()/3)
	}
	top = indexedPiece{Index: piece.Index*2 + 1, Data: topData}
	bottom = indexedPiece{Index: piece.Index*2 + 2, Data: bottomData}
	return
}

func (f *Fracturer) splitIslands(meshes []*Mesh) []*Mesh {
	islands := make([][]*Mesh, len(meshes))
	essentials.ConcurrentMap(f.Concurrency, len(meshes), func(i int) {
		islands[i] = FindIslands(meshes[i])
	})
	var res []*Mesh
	for _, x := range islands {
		res = append(res, x...)
	}
	return res
}

// FragmentMass distributes a parent's mass to a fragment in proportion to
// volume, assuming uniform density.
func FragmentMass(fragmentVolume, parentVolume, parentMass float64) float64 {
	if parentVolume == 0 {
		return 0
	}
	density := parentVolume / parentMass
	return fragmentVolume / density
}
