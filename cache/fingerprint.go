package cache

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/torchbearer"
)

// Fingerprint hashes what the algorithms can observe of m inside the
// rectangle spanned by a and b, inclusive: bounds, opacity and movement cost
// of every cell. Two maps with the same fingerprint over a region give the
// same results for queries confined to it, barring hash collisions. It is a
// fallback for callers that do not keep their own Version counter and costs
// one pass over the region.
func Fingerprint(m torchbearer.Map, a, b torchbearer.Point) Version {
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)

	digest := xxhash.New()
	buf := make([]byte, 0, 10)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			buf = buf[:0]
			p := torchbearer.Point{X: x, Y: y}
			if !m.InBounds(p) {
				buf = append(buf, 0)
				digest.Write(buf)
				continue
			}
			flags := byte(1)
			if m.IsOpaque(p) {
				flags |= 2
			}
			cost, ok := m.MovementCost(p)
			if ok {
				flags |= 4
			} else {
				cost = 0
			}
			buf = append(buf, flags)
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(cost))
			digest.Write(buf)
		}
	}
	return Version(digest.Sum64())
}
