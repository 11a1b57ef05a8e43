package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// Grid places one jittered point per cell of a cols×rows grid sized to hold
// the requested count, consumed in shuffled cell order.
type Grid struct {
	// Jitter in [0,1] scales the jitter radius as a fraction of half a cell.
	Jitter float64
}

func (Grid) Kind() Kind { return KindGrid }

// GridLayout returns the grid dimensions used for count points in b:
// cols = ceil(sqrt(count·aspect)), rows = ceil(count/cols).
func GridLayout(count int, b geom.Bounds3) (cols, rows int) {
	if count <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(count) * b.Aspect())))
	cols = max(1, min(cols, count))
	rows = (count + cols - 1) / cols
	return cols, rows
}

type gridCell struct {
	center       geom.Vec3
	halfW, halfD float64
}

func gridCells(count int, b geom.Bounds3) []gridCell {
	cols, rows := GridLayout(count, b)
	if cols == 0 {
		return nil
	}

	cellW := b.Width() / float64(cols)
	cellD := b.Depth() / float64(rows)
	lo := b.Min()

	cells := make([]gridCell, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			cells = append(cells, gridCell{
				center: geom.Flat(
					lo.X+(float64(c)+0.5)*cellW,
					lo.Z+(float64(r)+0.5)*cellD,
				),
				halfW: cellW / 2,
				halfD: cellD / 2,
			})
		}
	}
	return cells
}

func (g Grid) jittered(rng *rand.Rand, c gridCell) geom.Vec3 {
	j := geom.Clamp(g.Jitter, 0, 1)
	if j == 0 {
		return c.center
	}
	return geom.Flat(
		c.center.X+(rng.Float64()*2-1)*c.halfW*j,
		c.center.Z+(rng.Float64()*2-1)*c.halfD*j,
	)
}

func (g Grid) Place(rng *rand.Rand, req Request) []Placement {
	p := newPlacer(rng, req)

	// cols*rows >= Count cells; cells rejected by the constraints are skipped.
	cells := gridCells(p.req.Count, p.req.Bounds)
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	attempts := MaxAttempts
	if g.Jitter <= 0 {
		attempts = 1 // every retry would yield the same cell center
	}

	for _, c := range cells {
		if p.done() {
			break
		}
		for range attempts {
			pos := g.jittered(rng, c)
			if p.valid(pos) {
				p.accept(pos)
				break
			}
		}
	}

	// Cells rejected by the exclusion zone leave a deficit.
	p.fillUniform()
	return p.result()
}
