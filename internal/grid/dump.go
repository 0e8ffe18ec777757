package grid

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes every cube point, one lattice row per line, grouped by face.
func (g *Grid) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	i := 0
	for face := 0; face < NumFaces; face++ {
		for v := 0; v <= g.resolution; v++ {
			fmt.Fprintf(bw, "{%d / _, %d}:", face, v)
			for u := 0; u <= g.resolution; u++ {
				fmt.Fprintf(bw, " %v", g.cubePoints[i])
				i++
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
