package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Jordieee/GPC-Trabajo/internal/sim"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
)

// cell is one character of the minimap.
type cell struct {
	ch    rune
	style tcell.Style
}

var (
	waterStyle  = tcell.StyleDefault.Foreground(tcell.ColorNavy)
	landStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	mainStyle   = tcell.StyleDefault.Foreground(tcell.ColorLime)
	bridgeStyle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	treeStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	rockStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	deadStyle   = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	frozenStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// enemyStyles maps an enemy type name to its colour.
var enemyStyles = map[string]tcell.Style{
	"basic": tcell.StyleDefault.Foreground(tcell.ColorRed),
	"fast":  tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"tank":  tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
}

// projection maps world X/Z onto a cols x rows grid. Terminal cells are about
// twice as tall as wide, so one row covers twice the world distance of a column.
type projection struct {
	lo         mgl64.Vec3
	perCol     float64
	perRow     float64
	cols, rows int
}

func newProjection(t *terrain.Model, cols, rows int) projection {
	lo, hi := t.Bounds()
	spanX := math.Max(hi[0]-lo[0], 1)
	spanZ := math.Max(hi[2]-lo[2], 1)
	perRow := math.Max(spanZ/float64(rows), 2*spanX/float64(cols))
	perCol := perRow / 2
	padX := (float64(cols)*perCol - spanX) / 2
	padZ := (float64(rows)*perRow - spanZ) / 2
	return projection{
		lo:     mgl64.Vec3{lo[0] - padX, 0, lo[2] - padZ},
		perCol: perCol,
		perRow: perRow,
		cols:   cols,
		rows:   rows,
	}
}

// cellOf returns the grid cell holding p, ok false when it falls outside.
func (pr projection) cellOf(p mgl64.Vec3) (x, y int, ok bool) {
	x = int(math.Floor((p[0] - pr.lo[0]) / pr.perCol))
	y = int(math.Floor((p[2] - pr.lo[2]) / pr.perRow))
	return x, y, x >= 0 && y >= 0 && x < pr.cols && y < pr.rows
}

// centre returns the world point at the middle of a cell.
func (pr projection) centre(x, y int) mgl64.Vec3 {
	return mgl64.Vec3{
		pr.lo[0] + (float64(x)+0.5)*pr.perCol,
		0,
		pr.lo[2] + (float64(y)+0.5)*pr.perRow,
	}
}

// terrainLayer samples the static terrain once per grid size.
func terrainLayer(t *terrain.Model, pr projection) [][]cell {
	islands := t.Islands()
	bridges := t.Bridges()
	grid := make([][]cell, pr.rows)
	for y := range grid {
		grid[y] = make([]cell, pr.cols)
		for x := range grid[y] {
			p := pr.centre(x, y)
			c := cell{'~', waterStyle}
			for _, b := range bridges {
				if b.Contains(p, 0) {
					c = cell{'=', bridgeStyle}
					break
				}
			}
			for _, isl := range islands {
				if isl.Contains(p, 0) {
					c = cell{'.', landStyle}
					if isl.IsMain {
						c.style = mainStyle
					}
					break
				}
			}
			grid[y][x] = c
		}
	}
	for _, o := range t.Obstacles() {
		if x, y, ok := pr.cellOf(o.Position); ok {
			if o.Kind == terrain.ObstacleRock {
				grid[y][x] = cell{'o', rockStyle}
			} else {
				grid[y][x] = cell{'t', treeStyle}
			}
		}
	}
	return grid
}

// rasterize overlays agents on a copy of the terrain layer. Corpses go first so
// living enemies and the player draw on top.
func rasterize(s *sim.Session, base [][]cell, pr projection) [][]cell {
	grid := make([][]cell, len(base))
	for y := range base {
		grid[y] = append([]cell(nil), base[y]...)
	}
	enemies := s.Enemies()
	for _, e := range enemies {
		if !e.Dead {
			continue
		}
		if x, y, ok := pr.cellOf(e.Position); ok {
			grid[y][x] = cell{'x', deadStyle}
		}
	}
	for _, e := range enemies {
		if e.Dead {
			continue
		}
		x, y, ok := pr.cellOf(e.Position)
		if !ok {
			continue
		}
		style := enemyStyles[e.Type]
		if e.Frozen {
			style = frozenStyle
		}
		grid[y][x] = cell{e.Symbol, style}
	}
	if x, y, ok := pr.cellOf(s.Player().Position()); ok {
		grid[y][x] = cell{'@', playerStyle}
	}
	return grid
}
