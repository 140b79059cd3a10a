package fracture

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// WriteFragments serializes meshes in a 32-bit precision binary format.
func WriteFragments(w io.Writer, meshes []*Mesh) error {
	if err := writeCount(w, len(meshes)); err != nil {
		return errors.Wrap(err, "write fragments")
	}
	for _, m := range meshes {
		if err := writeMesh(w, m); err != nil {
			return errors.Wrap(err, "write fragments")
		}
	}
	return nil
}

// ReadFragments reads the output written by WriteFragments.
func ReadFragments(r io.Reader) ([]*Mesh, error) {
	count, err := readCount(r)
	if err != nil {
		return nil, errors.Wrap(err, "read fragments")
	}
	res := make([]*Mesh, 0, minCapacity(count))
	for i := 0; i < count; i++ {
		m, err := readMesh(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read fragments: fragment %d", i)
		}
		res = append(res, m)
	}
	return res, nil
}

// WriteMesh serializes a single mesh in the format used by WriteFragments.
func WriteMesh(w io.Writer, m *Mesh) error {
	if err := writeMesh(w, m); err != nil {
		return errors.Wrap(err, "write mesh")
	}
	return nil
}

// ReadMesh reads the output written by WriteMesh.
func ReadMesh(r io.Reader) (*Mesh, error) {
	m, err := readMesh(r)
	if err != nil {
		return nil, errors.Wrap(err, "read mesh")
	}
	return m, nil
}

func writeMesh(w io.Writer, m *Mesh) error {
	if err := writeCount(w, len(m.Vertices)); err != nil {
		return err
	}
	for _, v := range m.Vertices {
		err := binary.Write(w, binary.LittleEndian, [8]float32{
			float32(v.Position.X),
			float32(v.Position.Y),
			float32(v.Position.Z),
			float32(v.Normal.X),
			float32(v.Normal.Y),
			float32(v.Normal.Z),
			float32(v.UV.X),
			float32(v.UV.Y),
		})
		if err != nil {
			return err
		}
	}
	if err := writeCount(w, len(m.Submeshes)); err != nil {
		return err
	}
	for _, indices := range m.Submeshes {
		if err := writeCount(w, len(indices)); err != nil {
			return err
		}
		buf := make([]uint32, len(indices))
		for i, x := range indices {
			if x < 0 || x >= len(m.Vertices) {
				panic("cannot encode out-of-range vertex index")
			}
			buf[i] = uint32(x)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return err
		}
	}
	return nil
}

func readMesh(r io.Reader) (*Mesh, error) {
	numVertices, err := readCount(r)
	if err != nil {
		return nil, err
	}
	res := &Mesh{Vertices: make([]MeshVertex, 0, minCapacity(numVertices))}
	for i := 0; i < numVertices; i++ {
		var values [8]float32
		if err := binary.Read(r, binary.LittleEndian, &values); err != nil {
			return nil, err
		}
		res.Vertices = append(res.Vertices, MeshVertex{
			Position: model3d.XYZ(float64(values[0]), float64(values[1]), float64(values[2])),
			Normal:   model3d.XYZ(float64(values[3]), float64(values[4]), float64(values[5])),
			UV:       model2d.XY(float64(values[6]), float64(values[7])),
		})
	}

	numSubmeshes, err := readCount(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < numSubmeshes; i++ {
		numIndices, err := readCount(r)
		if err != nil {
			return nil, err
		}
		if numIndices%3 != 0 {
			return nil, errors.Errorf("submesh %d: index count %d is not a multiple of 3",
				i, numIndices)
		}
		indices := make([]int, 0, minCapacity(numIndices))
		for j := 0; j < numIndices; j++ {
			var idx uint32
			if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
				return nil, err
			}
			if int(idx) >= numVertices {
				return nil, errors.Errorf("submesh %d: vertex index %d out of range", i, idx)
			}
			indices = append(indices, int(idx))
		}
		res.Submeshes = append(res.Submeshes, indices)
	}
	return res, nil
}

func writeCount(w io.Writer, n int) error {
	if uint64(n) > math.MaxUint32 {
		panic("cannot encode count larger than 32 bits")
	}
	return binary.Write(w, binary.LittleEndian, uint32(n))
}

func readCount(r io.Reader) (int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// minCapacity caps preallocation for counts read from a file.
func minCapacity(count int) int {
	if count > 1<<16 {
		return 1 << 16
	}
	return count
}
