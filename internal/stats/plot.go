package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Shamsear/typevelocity/internal/model"
)

// Series is a named sequence of per-session values, oldest first.
type Series struct {
	Name   string
	Unit   string
	Values []float64
}

// PlotOptions controls plot geometry. Width is in terminal cells for the
// plot area only; zero means "fit the terminal".
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
}

type dash struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	axisLabelMax      = "max"
	axisLabelMid      = "mid"
	axisLabelMin      = "min"
	axisSeparator     = " │ "
	fallbackWidth     = 80
)

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// brailleBits maps a dot at (x, y) inside a 2x4 braille cell to its bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// SessionSeries returns WPM and accuracy series for history, which is
// stored newest first, smoothed with a moving average of window sessions.
func SessionSeries(history []model.Session, window int) []Series {
	sessions := Chronological(history)
	wpm := make([]float64, len(sessions))
	acc := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm[i] = float64(s.WPM)
		acc[i] = float64(s.Accuracy)
	}
	return []Series{
		{Name: "WPM", Unit: " wpm", Values: MovingAverage(wpm, window)},
		{Name: "Accuracy", Unit: "%", Values: MovingAverage(acc, window)},
	}
}

// PlotSeries draws every non-empty series as a braille line chart. Each
// series is scaled to its own range, which is printed above the chart.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	width = max(width, minPlotWidth)

	layers := make([]canvas, len(series))
	ranges := make([][2]float64, len(series))
	for i, s := range series {
		values := resample(s.Values, width)
		lo, hi := bounds(s.Values)
		ranges[i] = [2]float64{lo, hi}
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		layers[i] = newCanvas(width, height)
		layers[i].trace(values, lo, hi, dashes[i%len(dashes)])
	}

	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	for i, s := range series {
		lines = append(lines, fmt.Sprintf("%s: %.0f-%.0f%s", s.Name, ranges[i][0], ranges[i][1], s.Unit))
	}
	labels := axisLabels(height)
	labelWidth := utf8.RuneCountInString(axisLabelMax)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := merge(layers, x, y)
			cell := string(rune(0x2800 + int(mask)))
			if opts.Color && owner >= 0 {
				cell = seriesStyle(owner).Render(cell)
			}
			row.WriteString(cell)
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(series, opts.Color), "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor returns the plot area width that fits totalWidth cells
// once the axis is drawn.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := utf8.RuneCountInString(axisLabelMax) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axis, minPlotWidth)
}

// TerminalWidth reports the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func seriesStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)])
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	labels[0] = axisLabelMax
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelMin
	}
	return labels
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashes[i%len(dashes)].name)
		if color {
			label = seriesStyle(i).Render(label)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// canvas holds braille dot masks, one byte per terminal cell.
type canvas [][]uint8

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for y := range c {
		c[y] = make([]uint8, width)
	}
	return c
}

// set lights the dot at sub-cell coordinates (x, y); each cell is 2 dots
// wide and 4 tall.
func (c canvas) set(x, y int) {
	if x < 0 || y < 0 || y/4 >= len(c) || x/2 >= len(c[y/4]) {
		return
	}
	c[y/4][x/2] |= brailleBits[x%2][y%4]
}

// trace plots one value per cell column, joining neighbours with lines.
func (c canvas) trace(values []float64, lo, hi float64, d dash) {
	rows := len(c) * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x, y := i*2, dotRow(v, lo, hi, rows)
		if prevX < 0 {
			if d.draws(x) {
				c.set(x, y)
			}
		} else {
			line(prevX, prevY, x, y, func(px, py int) {
				if d.draws(px) {
					c.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

func merge(layers []canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, c := range layers {
		if c[y][x] == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= c[y][x]
	}
	return mask, owner
}

// dotRow maps v onto rows dot rows, highest value at the top.
func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// resample fits values to width points: long series are averaged into
// buckets, short ones are linearly interpolated.
func resample(values []float64, width int) []float64 {
	switch {
	case len(values) == 0 || width <= 0:
		return nil
	case len(values) == width:
		return append([]float64(nil), values...)
	case len(values) > width:
		return bucketMeans(values, width)
	default:
		return interpolate(values, width)
	}
}

func bucketMeans(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	for i := range out {
		start := i * n / width
		end := min(max((i+1)*n/width, start+1), n)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func interpolate(values []float64, width int) []float64 {
	out := make([]float64, width)
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// line walks the cells between two points with Bresenham's algorithm.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
