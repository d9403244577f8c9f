package extract

import (
	"sort"
	"strings"
)

const (
	// lineTolerance is the max baseline delta, in points, for two spans to
	// share a line.
	lineTolerance = 3.0
	// columnGap is the min horizontal whitespace, in points, that separates
	// two columns. Indentation inside a column stays well below this.
	columnGap = 90.0
	// blockGapFactor times the median line advance marks a paragraph break.
	blockGapFactor = 2.2
	// defaultLineAdvance is used when a column has too few lines to measure.
	defaultLineAdvance = 14.0
)

// Block is a contiguous group of lines in one column.
type Block struct {
	Top   float64 // baseline of the first line, Y grows upward
	Left  float64
	Lines []string
}

type textLine struct {
	y     float64
	left  float64
	spans []TextSpan
}

// LayoutText reconstructs the reading order of a page from its positioned
// spans. Spans are clustered into lines by baseline, lines into column
// blocks by horizontal gaps, and blocks are emitted top-to-bottom,
// left-to-right. Plain concatenation of spans interleaves columns, which
// scrambles names and section headers.
func LayoutText(spans []TextSpan) string {
	blocks := OrderBlocks(spans)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, strings.Join(b.Lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

// OrderBlocks groups spans into reading-ordered blocks.
func OrderBlocks(spans []TextSpan) []Block {
	kept := make([]TextSpan, 0, len(spans))
	for _, sp := range spans {
		if strings.TrimSpace(sp.Text) != "" {
			kept = append(kept, sp)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	var blocks []Block
	for _, col := range splitColumns(kept) {
		lines := groupLines(col)
		blocks = append(blocks, splitBlocks(lines)...)
	}

	// Top-to-bottom, then left-to-right. Tops within one line height are
	// treated as level so side-by-side columns read left column first.
	sort.SliceStable(blocks, func(i, j int) bool {
		if di := blocks[i].Top - blocks[j].Top; di > lineTolerance || di < -lineTolerance {
			return blocks[i].Top > blocks[j].Top
		}
		return blocks[i].Left < blocks[j].Left
	})
	return blocks
}

// splitColumns partitions spans by horizontal position. Column boundaries
// sit wherever consecutive span left edges, taken in X order, leave a gap
// wider than columnGap.
func splitColumns(spans []TextSpan) [][]TextSpan {
	xs := make([]float64, len(spans))
	for i, sp := range spans {
		xs[i] = sp.X
	}
	sort.Float64s(xs)

	boundaries := []float64{xs[0]}
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > columnGap {
			boundaries = append(boundaries, xs[i])
		}
	}

	cols := make([][]TextSpan, len(boundaries))
	for _, sp := range spans {
		c := 0
		for c+1 < len(boundaries) && sp.X >= boundaries[c+1] {
			c++
		}
		cols[c] = append(cols[c], sp)
	}
	return cols
}

// groupLines clusters spans of one column into baseline-ordered lines.
func groupLines(spans []TextSpan) []textLine {
	sorted := make([]TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []textLine
	for _, sp := range sorted {
		if n := len(lines); n > 0 && lines[n-1].y-sp.Y <= lineTolerance {
			cur := &lines[n-1]
			cur.spans = append(cur.spans, sp)
			if sp.X < cur.left {
				cur.left = sp.X
			}
			continue
		}
		lines = append(lines, textLine{y: sp.Y, left: sp.X, spans: []TextSpan{sp}})
	}
	return lines
}

// splitBlocks cuts a column's line sequence at vertical gaps noticeably
// wider than the column's own line advance.
func splitBlocks(lines []textLine) []Block {
	if len(lines) == 0 {
		return nil
	}

	advance := medianAdvance(lines)
	var blocks []Block
	cur := newBlock(lines[0])
	for i := 1; i < len(lines); i++ {
		if lines[i-1].y-lines[i].y > blockGapFactor*advance {
			blocks = append(blocks, cur)
			cur = newBlock(lines[i])
			continue
		}
		cur.Lines = append(cur.Lines, assembleLine(lines[i].spans))
		if lines[i].left < cur.Left {
			cur.Left = lines[i].left
		}
	}
	return append(blocks, cur)
}

func newBlock(first textLine) Block {
	return Block{
		Top:   first.y,
		Left:  first.left,
		Lines: []string{assembleLine(first.spans)},
	}
}

func medianAdvance(lines []textLine) float64 {
	if len(lines) < 2 {
		return defaultLineAdvance
	}
	gaps := make([]float64, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		gaps = append(gaps, lines[i-1].y-lines[i].y)
	}
	sort.Float64s(gaps)
	m := gaps[len(gaps)/2]
	if m <= 0 {
		return defaultLineAdvance
	}
	return m
}

// assembleLine joins a line's spans left to right, inserting a space only
// where the horizontal gap between runs is wide enough to have held one.
// Producers that emit one glyph per run would otherwise come out
// space-separated per character.
func assembleLine(spans []TextSpan) string {
	sorted := make([]TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, sp := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			if sp.X-(prev.X+prev.W) > spaceGap(prev.FontSize) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(sp.Text)
	}
	return strings.TrimSpace(b.String())
}

func spaceGap(fontSize float64) float64 {
	g := fontSize * 0.2
	if g < 1.0 {
		return 1.0
	}
	return g
}
