package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/graphlab/internal/graph"
)

// HeightColor shades a point from dim gray at y=-1 to white at y=1.
func HeightColor(y float32) rl.Color {
	t := max(0, min(1, (y+1)/2))
	v := uint8(60 + t*195)
	return rl.NewColor(v, v, v, 255)
}

// pointSize keeps neighbouring cubes from overlapping.
func pointSize(resolution int) float32 {
	if resolution <= 0 {
		return 0
	}
	return 1.6 / float32(resolution)
}

func (a *App) drawScene() {
	rl.BeginMode3D(a.Camera)
	a.drawFloor(10, 0.2)
	if a.ShowHash {
		a.RenderHashGrid()
	} else {
		a.RenderGraph()
	}
	rl.EndMode3D()
}

func (a *App) drawFloor(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, -1.1, -half), rl.NewVector3(pos, -1.1, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, -1.1, pos), rl.NewVector3(half, -1.1, pos), ColGrid)
	}
}

func (a *App) RenderGraph() {
	size := pointSize(a.graph.Config().Resolution)
	for i, p := range a.points {
		rl.DrawCube(p, size, size, size, HeightColor(a.heights[i]))
	}
}

func (a *App) RenderHashGrid() {
	if a.grid.Len() == 0 {
		return
	}
	res := a.grid.Config().Resolution
	size := 2 / float32(res) * 0.8
	for i := 0; i < a.grid.Len(); i++ {
		p := a.grid.Position(i)
		r, g, b := a.grid.Color(i)
		pos := rl.NewVector3(float32(p.X)*2, float32(p.Y)*2, float32(p.Z)*2)
		rl.DrawCube(pos, size, size, size, rl.NewColor(r, g, b, 255))
	}
}

func (a *App) DrawHUD() {
	snap := a.graph.Snapshot()
	a.drawText("graphlab", 30, 30, 24, ColSelect)
	a.drawText(":: "+statusLine(snap), 160, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	y := 80
	for _, line := range strings.Split(a.reading.String(), "\n") {
		a.drawText(line, 1150, y, 16, ColAccent)
		y += 20
	}

	a.drawText("[SPACE] PAUSE  [N] NEXT  [M] MODE  [H] HASH  [F] FPS/MS  [ ] RES  [ESC] MENU  [Q] QUIT", 420, 680, 14, ColTextDim)
	a.drawText(a.backend.Name(), 30, 680, 14, ColTextDim)
}

func statusLine(s graph.Snapshot) string {
	if s.Phase == graph.Transitioning {
		return fmt.Sprintf("%s -> %s  %3.0f%%  res %d  %s", s.Previous, s.Current, s.Progress*100, s.Resolution, s.Mode)
	}
	return fmt.Sprintf("%s  res %d  %s", s.Current, s.Resolution, s.Mode)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	if !a.hasFont {
		rl.DrawText(text, int32(x), int32(y), int32(size), color)
		return
	}
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the eased transition progress of recent frames.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		py := float32(rectY+height) - float32(val)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("blend %.2f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("graphlab", 50, 50, 40, ColSelect)
	a.drawText("Select Function", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Names {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  ESC: BACK  Q: QUIT", 800, 680, 14, ColTextDim)
}
