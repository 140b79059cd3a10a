package fracture

import "github.com/unixpickle/model3d/model3d"

// FindIslands splits a mesh into its connected components.
//
// Triangles are connected if they share a vertex, or if any of their vertices
// have the same position. Each island keeps the submesh of every triangle.
// Vertices that belong to no triangle are dropped.
func FindIslands(m *Mesh) []*Mesh {
	type triangleRef struct {
		Submesh int
		Offset  int
	}

	coincident := map[model3d.Coord3D][]int{}
	for i, v := range m.Vertices {
		coincident[v.Key()] = append(coincident[v.Key()], i)
	}

	vertexTriangles := make([][]triangleRef, len(m.Vertices))
	visitedTriangles := make([][]bool, len(m.Submeshes))
	for s, indices := range m.Submeshes {
		visitedTriangles[s] = make([]bool, len(indices)/3)
		for t := 0; t+2 < len(indices); t += 3 {
			ref := triangleRef{Submesh: s, Offset: t}
			for _, v := range indices[t : t+3] {
				vertexTriangles[v] = append(vertexTriangles[v], ref)
			}
		}
	}

	var res []*Mesh
	visitedVertices := make([]bool, len(m.Vertices))
	for i := range m.Vertices {
		if visitedVertices[i] {
			continue
		}

		island := &Mesh{Submeshes: make([][]int, len(m.Submeshes))}
		vertexMap := map[int]int{}
		var triangles []triangleRef

		frontier := []int{i}
		for len(frontier) > 0 {
			k := frontier[0]
			frontier = frontier[1:]
			if visitedVertices[k] {
				continue
			}
			visitedVertices[k] = true
			vertexMap[k] = len(island.Vertices)
			island.Vertices = append(island.Vertices, m.Vertices[k])

			for _, ref := range vertexTriangles[k] {
				if visitedTriangles[ref.Submesh][ref.Offset/3] {
					continue
				}
				visitedTriangles[ref.Submesh][ref.Offset/3] = true
				triangles = append(triangles, ref)
				for _, v := range m.Submeshes[ref.Submesh][ref.Offset : ref.Offset+3] {
					frontier = append(frontier, v)
					frontier = append(frontier, coincident[m.Vertices[v].Key()]...)
				}
			}
		}

		if len(triangles) == 0 {
			continue
		}
		for _, ref := range triangles {
			for _, v := range m.Submeshes[ref.Submesh][ref.Offset : ref.Offset+3] {
				island.Submeshes[ref.Submesh] = append(island.Submeshes[ref.Submesh], vertexMap[v])
			}
		}
		res = append(res, island)
	}
	return res
}
