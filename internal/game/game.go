// Package game is the ebiten debug viewer for an arena session. It renders the
// archipelago top-down, turns keyboard and mouse input into player intents and
// steps the session at a fixed 60 Hz.
package game

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Jordieee/GPC-Trabajo/internal/agent"
	"github.com/Jordieee/GPC-Trabajo/internal/config"
	"github.com/Jordieee/GPC-Trabajo/internal/geom"
	"github.com/Jordieee/GPC-Trabajo/internal/sim"
	"github.com/Jordieee/GPC-Trabajo/internal/terrain"
	"github.com/Jordieee/GPC-Trabajo/internal/wave"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// hudScale is the integer upscale factor applied to the key legend.
const hudScale = 2

// statusFrames is how long a one-line status message stays up (1.5 s).
const statusFrames = 90

var (
	waterColor    = color.RGBA{R: 18, G: 40, B: 70, A: 255}
	mainIsland    = color.RGBA{R: 58, G: 96, B: 52, A: 255}
	otherIsland   = color.RGBA{R: 46, G: 82, B: 44, A: 255}
	bridgeColor   = color.RGBA{R: 120, G: 92, B: 60, A: 255}
	treeColor     = color.RGBA{R: 24, G: 60, B: 28, A: 255}
	rockColor     = color.RGBA{R: 110, G: 110, B: 104, A: 255}
	playerColor   = color.RGBA{R: 70, G: 170, B: 230, A: 255}
	corpseColor   = color.RGBA{R: 80, G: 70, B: 70, A: 160}
	flashColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	sectorColor   = color.RGBA{R: 230, G: 200, B: 70, A: 90}
	healthBarBack = color.RGBA{R: 40, G: 10, B: 10, A: 220}
	healthBarFill = color.RGBA{R: 90, G: 220, B: 90, A: 255}
)

// enemyColors maps each enemy type to its marker colour.
var enemyColors = map[string]color.RGBA{
	agent.EnemyBasic.String(): {R: 220, G: 80, B: 70, A: 255},
	agent.EnemyFast.String():  {R: 240, G: 170, B: 40, A: 255},
	agent.EnemyTank.String():  {R: 170, G: 70, B: 200, A: 255},
}

// Game implements ebiten.Game over a sim.Session.
type Game struct {
	width      int
	height     int
	gameWidth  int // map viewport width (log panel takes the rest)
	gameHeight int
	offX       int
	offY       int

	cfg      config.Config
	logger   *log.Logger
	session  *sim.Session
	reporter *sim.SimReporter
	eventLog *EventLog
	face     text.Face

	// world -> screen mapping
	lo    mgl64.Vec3
	scale float64

	paused      bool
	showHUD     bool
	showSectors bool
	status      string
	statusTTL   int
	prevKeys    map[ebiten.Key]bool
	prevMouse   bool
	hudBuf      *ebiten.Image
}

// New builds a viewer and a fresh session from cfg. A nil logger discards.
func New(cfg config.Config, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	const w, h = 1280, 800
	g := &Game{
		width:      w,
		height:     h,
		gameWidth:  w - logPanelWidth - 2*borderWidth,
		gameHeight: h - 2*borderWidth,
		offX:       borderWidth,
		offY:       borderWidth,
		cfg:        cfg,
		logger:     logger,
		face:       text.NewGoXFace(basicfont.Face7x13),
		showHUD:    true,
		prevKeys:   map[ebiten.Key]bool{},
		hudBuf:     ebiten.NewImage(w/hudScale, h/hudScale),
	}
	g.reset(cfg.Seed)
	return g
}

// reset starts a new session with the given seed, keeping the rest of the config.
func (g *Game) reset(seed int64) {
	cfg := g.cfg
	cfg.Seed = seed
	g.cfg = cfg
	g.session = sim.NewSession(cfg, sim.Deps{Logger: g.logger, Log: sim.NewSimLog(false)})
	g.reporter = sim.NewSimReporter()
	g.eventLog = NewEventLog()
	g.eventLog.Add(0, SourceWave, fmt.Sprintf("session %s seed=%d", g.session.ID.String()[:8], seed))
	g.fitView(g.session.Terrain())
	g.logger.Info("viewer session started", "seed", seed)
}

// fitView picks the scale that fits the terrain bounds into the viewport.
func (g *Game) fitView(t *terrain.Model) {
	lo, hi := t.Bounds()
	spanX := math.Max(hi[0]-lo[0], 1)
	spanZ := math.Max(hi[2]-lo[2], 1)
	g.scale = math.Min(float64(g.gameWidth)/spanX, float64(g.gameHeight)/spanZ)
	// Centre the shorter axis.
	padX := (float64(g.gameWidth)/g.scale - spanX) / 2
	padZ := (float64(g.gameHeight)/g.scale - spanZ) / 2
	g.lo = mgl64.Vec3{lo[0] - padX, 0, lo[2] - padZ}
}

// Session exposes the running session.
func (g *Game) Session() *sim.Session {
	return g.session
}

func (g *Game) Update() error {
	in := g.handleInput()
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	if g.paused {
		return nil
	}
	rep := g.session.Tick(sim.DefaultDT, in)
	g.reporter.Collect(rep)
	g.eventLog.Collect(rep)
	return nil
}

// keyPressed reports a rising edge for k.
func (g *Game) keyPressed(k ebiten.Key) bool {
	down := ebiten.IsKeyPressed(k)
	was := g.prevKeys[k]
	g.prevKeys[k] = down
	return down && !was
}

// handleInput processes toggles (edge-triggered) and returns the movement
// intent for this frame.
func (g *Game) handleInput() sim.Intent {
	if g.keyPressed(ebiten.KeyEnter) {
		if g.session.GameOver() {
			g.reset(g.cfg.Seed + 1)
		} else {
			g.session.StartWave()
		}
	}
	if g.keyPressed(ebiten.KeyR) {
		g.reset(g.cfg.Seed + 1)
	}
	if g.keyPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.keyPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.keyPressed(ebiten.KeyB) {
		g.showSectors = !g.showSectors
	}
	if g.keyPressed(ebiten.KeyC) {
		g.copyReport()
	}

	var in sim.Intent
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move[1]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move[1]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move[0]++
	}

	mouse := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Attack = g.keyPressed(ebiten.KeySpace) || (mouse && !g.prevMouse)
	g.prevMouse = mouse
	return in
}

// ReportText is what the copy key puts on the clipboard.
func (g *Game) ReportText() string {
	return g.reporter.Format() + "\n" + g.session.Log().Summary(g.session)
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.ReportText()); err != nil {
		g.logger.Warn("copy report to clipboard", "err", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("report copied")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTTL = statusFrames
}

// toScreen maps a world position onto the map viewport.
func (g *Game) toScreen(p mgl64.Vec3) (float32, float32) {
	x := float64(g.offX) + (p[0]-g.lo[0])*g.scale
	y := float64(g.offY) + (p[2]-g.lo[2])*g.scale
	return float32(x), float32(y)
}

func (g *Game) px(worldLen float64) float32 {
	return float32(worldLen * g.scale)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 12, B: 16, A: 255})
	vector.FillRect(screen, float32(g.offX), float32(g.offY), float32(g.gameWidth), float32(g.gameHeight), waterColor, false)

	g.drawTerrain(screen)
	g.drawEnemies(screen)
	g.drawPlayer(screen)

	ox, oy := float32(g.offX), float32(g.offY)
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, color.RGBA{R: 60, G: 80, B: 110, A: 255}, false)

	g.drawStatus(screen)
	g.drawCountdown(screen)
	g.eventLog.Draw(screen, g.offX+g.gameWidth+borderWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawTerrain(screen *ebiten.Image) {
	t := g.session.Terrain()
	for _, b := range t.Bridges() {
		a, c := b.Ends()
		x0, y0 := g.toScreen(a)
		x1, y1 := g.toScreen(c)
		vector.StrokeLine(screen, x0, y0, x1, y1, g.px(b.Width), bridgeColor, true)
	}
	for i, isl := range t.Islands() {
		cx, cy := g.toScreen(isl.Center)
		col := otherIsland
		if isl.IsMain {
			col = mainIsland
		}
		vector.FillCircle(screen, cx, cy, g.px(isl.Radius), col, true)
		if g.showSectors {
			for _, s := range isl.Blocked {
				for _, a := range []float64{s.Angle - s.Width/2, s.Angle + s.Width/2} {
					ex, ey := g.toScreen(geom.OnCircle(isl.Center, a, isl.Radius))
					vector.StrokeLine(screen, cx, cy, ex, ey, 1, sectorColor, true)
				}
			}
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", i), int(cx)-3, int(cy)-8)
		}
	}
	for _, o := range t.Obstacles() {
		cx, cy := g.toScreen(o.Position)
		col := treeColor
		if o.Kind == terrain.ObstacleRock {
			col = rockColor
		}
		vector.FillCircle(screen, cx, cy, max(g.px(o.Radius), 1.5), col, true)
	}
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	r := max(g.px(0.6), 3)
	for _, e := range g.session.Enemies() {
		cx, cy := g.toScreen(e.Position)
		col := enemyColors[e.Type]
		switch {
		case e.Dead:
			col = corpseColor
		case e.Flashing:
			col = flashColor
		}
		vector.FillCircle(screen, cx, cy, r, col, true)
		if e.Dead {
			continue
		}
		if e.Frozen {
			vector.StrokeCircle(screen, cx, cy, r+2, 1, color.RGBA{R: 160, G: 200, B: 255, A: 200}, true)
		}
		if e.Attacking {
			vector.StrokeCircle(screen, cx, cy, r+3, 1.5, flashColor, true)
		}
		g.drawFacing(screen, cx, cy, e.Facing, r+3, col)
		g.drawHealthBar(screen, cx, cy-r-5, r*2, e.Health, e.MaxHealth)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.session.Player()
	cx, cy := g.toScreen(p.Position())
	r := max(g.px(0.7), 4)
	col := playerColor
	if p.Flashing() {
		col = flashColor
	}
	if p.Dead() {
		col = corpseColor
	}
	if p.Attacking() {
		g.drawSwingCone(screen, cx, cy, p.Facing(), g.px(p.AttackRange()))
	}
	vector.FillCircle(screen, cx, cy, r, col, true)
	g.drawFacing(screen, cx, cy, p.Facing(), r+5, col)
	g.drawHealthBar(screen, cx, cy-r-6, r*3, p.Health(), p.MaxHealth())
}

// drawFacing draws a short tick from (cx, cy) in the direction of yaw.
func (g *Game) drawFacing(screen *ebiten.Image, cx, cy float32, yaw float64, length float32, col color.RGBA) {
	d := geom.YawVec(yaw)
	vector.StrokeLine(screen, cx, cy, cx+float32(d[0])*length, cy+float32(d[2])*length, 1.5, col, true)
}

// drawSwingCone outlines the arc a swing can connect with.
func (g *Game) drawSwingCone(screen *ebiten.Image, cx, cy float32, yaw float64, reach float32) {
	half := math.Acos(g.cfg.Player.ConeThreshold)
	col := color.RGBA{R: 200, G: 230, B: 255, A: 140}
	const segments = 12
	prevX, prevY := cx, cy
	for i := 0; i <= segments; i++ {
		a := yaw - half + 2*half*float64(i)/segments
		d := geom.YawVec(a)
		x, y := cx+float32(d[0])*reach, cy+float32(d[2])*reach
		vector.StrokeLine(screen, prevX, prevY, x, y, 1, col, true)
		prevX, prevY = x, y
	}
	vector.StrokeLine(screen, prevX, prevY, cx, cy, 1, col, true)
}

func (g *Game) drawHealthBar(screen *ebiten.Image, cx, y, w float32, hp, maxHP int) {
	if maxHP <= 0 {
		return
	}
	frac := float32(max(hp, 0)) / float32(maxHP)
	vector.FillRect(screen, cx-w/2, y, w, 2, healthBarBack, false)
	vector.FillRect(screen, cx-w/2, y, w*frac, 2, healthBarFill, false)
}

// drawStatus renders the wave line at the top of the map with the HUD face.
func (g *Game) drawStatus(screen *ebiten.Image) {
	s := g.session
	p := s.Player()
	w := s.Waves()
	line := fmt.Sprintf("WAVE %d  %s  alive=%d  kills=%d  hp=%d/%d  t=%.1fs",
		w.Wave(), w.Phase(), w.AliveCount(), w.Kills(), max(p.Health(), 0), p.MaxHealth(), s.Elapsed())
	if g.paused {
		line += "  [PAUSED]"
	}
	g.drawText(screen, line, float64(g.offX+6), float64(g.offY+4), 1, color.White)

	var prompt string
	switch {
	case s.GameOver():
		prompt = "GAME OVER - Enter for a new run"
	case w.Phase() == wave.PhaseIdle:
		prompt = "Enter to start wave 1"
	case w.Phase() == wave.PhaseComplete:
		prompt = fmt.Sprintf("Wave cleared - Enter for wave %d", w.Wave())
	case g.statusTTL > 0:
		prompt = g.status
	}
	if prompt != "" {
		g.drawText(screen, prompt, float64(g.offX+6), float64(g.offY+20), 1, color.RGBA{R: 240, G: 210, B: 90, A: 255})
	}
}

func (g *Game) drawCountdown(screen *ebiten.Image) {
	label := g.session.Waves().CountdownLabel()
	if label == "" {
		return
	}
	const scale = 6
	w, _ := text.Measure(label, g.face, 0)
	x := float64(g.offX+g.gameWidth/2) - w*scale/2
	y := float64(g.offY+g.gameHeight/2) - 13*scale/2
	g.drawText(screen, label, x, y, scale, color.RGBA{R: 255, G: 230, B: 120, A: 255})
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y, scale float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, g.face, op)
}

// drawHUD renders the key legend into hudBuf at 1x, then scales it up.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		"WASD/arrows  move",
		"Space/click  swing",
		"Enter        next wave",
		"P pause  R restart",
		"B sectors  H hide",
		"C copy report",
	}
	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	bufH := float32(g.height / hudScale)
	bx := float32(borderWidth/hudScale + 2)
	by := bufH - boxH - float32(borderWidth/hudScale) - 2

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 14, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 120, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
