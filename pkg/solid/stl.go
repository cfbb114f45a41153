package solid

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteSTL writes a mesh as binary STL. The writer is not buffered;
// callers exporting to disk should wrap it in a bufio.Writer.
func WriteSTL(w io.Writer, m *Mesh) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("empty mesh")
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}

	var header [80]byte
	copy(header[:], "lathestep mesh export")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}

	var buf [50]byte
	for t := 0; t < len(m.Indices); t += 3 {
		i0 := m.Indices[t]
		put := func(off int, v float32) {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		}
		// Face normal: the tessellator stores per-vertex copies of it.
		put(0, m.Normals[i0*3])
		put(4, m.Normals[i0*3+1])
		put(8, m.Normals[i0*3+2])
		for j := 0; j < 3; j++ {
			vi := m.Indices[t+j]
			put(12+j*12, m.Vertices[vi*3])
			put(16+j*12, m.Vertices[vi*3+1])
			put(20+j*12, m.Vertices[vi*3+2])
		}
		// Attribute byte count stays zero.
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}
