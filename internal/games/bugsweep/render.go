package bugsweep

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/speedrun-arcade/internal/core"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

// Sprite frames, indexed by the sampled frame number.
var (
	shipFrames = map[string][]string{
		"idle":  {"/A\\", "/^\\"},
		"shoot": {"\\A/", "|A|"},
	}
	bossFrames = map[string][]string{
		"idle": {"<Ö>", "<ö>"},
		"hurt": {"<X>", ">x<"},
	}

	bugFly       = []rune{'ж', 'Ж'}
	bugExplode   = []rune{'*', 'o', 'O', '°', '.'}
	bossDefeated = []string{"***", "*#*", "+ +", ". .", ".  ", "   "}
	pulseColors  = []core.Color{core.ColorBrightRed, core.ColorOrange, core.ColorBrightYellow, core.ColorOrange}

	dropGlyphs = map[scoring.EventType]rune{
		scoring.EventQuestion: '?',
		scoring.EventCode:     '{',
		scoring.EventPowerup:  '+',
	}
)

const (
	projectileChar = '|'
	lifeChar       = '♥'
)

// Render draws the current game state to the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		g.drawMessage(dst, "CONFIG ERROR", []string{g.err.Error()}, core.ColorRed)
		return
	}
	if g.tracker == nil {
		return
	}

	g.drawHUD(dst)

	for _, d := range g.drops {
		g.drawDrop(dst, d)
	}
	for _, b := range g.bugs {
		g.drawBug(dst, b)
	}
	for _, p := range g.projectiles {
		dst.SetColored(p.x, p.y, projectileChar, core.ColorBrightCyan)
	}
	for _, e := range g.effects {
		g.drawEffect(dst, e)
	}
	g.drawShip(dst)

	dst.DrawTextColored(1, dst.Height()-1, "←/→ move  space fire  p pause  q quit", core.ColorGray)

	if g.paused {
		g.drawPaused(dst)
	}
	if g.gameOver {
		g.drawTally(dst)
	}
}

// frame samples a state-tracking animator; errors fall back to frame 0.
func (g *Game) frame(a *sprite.Animator) int {
	if a == nil {
		return 0
	}
	f, err := a.Frame(g.tick)
	if err != nil {
		return 0
	}
	return f
}

// sample reads a free-running animation straight off the global clock.
func (g *Game) sample(character, state string, tick int) int {
	d, err := g.catalog.Lookup(character, state)
	if err != nil {
		return 0
	}
	f, err := sprite.Sample(tick, d)
	if err != nil {
		return 0
	}
	return f
}

func (g *Game) drawHUD(dst *core.Screen) {
	w := dst.Width()

	dst.DrawTextColored(1, 0, fmt.Sprintf("SCORE %07d", g.counter.Value()), core.ColorWhite)

	if combo := g.tracker.Combo(); combo > 0 {
		label := fmt.Sprintf("COMBO x%d ×%.1f", combo, g.tracker.Multiplier())
		color := comboColor(combo, g.tracker.ComboRemaining(g.tick), g.tracker.ComboTimeout())
		if combo == scoring.MaxTier {
			label = fmt.Sprintf("MAX COMBO ×%.1f", g.tracker.Multiplier())
			if g.tracker.ComboRemaining(g.tick) > g.tracker.ComboTimeout()/3 {
				color = pulseColors[g.sample("ui", "pulse", g.tick)%len(pulseColors)]
			}
		}
		dst.DrawTextColored(16, 0, label, color)
	}

	lives := strings.Repeat(string(lifeChar), max(g.lives, 0))
	seconds := max(g.cfg.Stage.DurationTicks-g.tick, 0) / g.runtime.TickRate
	right := fmt.Sprintf("BUGS %d/%d  T %02d  ", g.defeated, g.cfg.Stage.BugQuota, seconds)
	x := w - utf8.RuneCountInString(right) - utf8.RuneCountInString(lives) - 1
	dst.DrawTextColored(x, 0, right, core.ColorCyan)
	dst.DrawTextColored(x+utf8.RuneCountInString(right), 0, lives, core.ColorBrightRed)

	dst.DrawHLine(0, 1, w, '─', core.ColorGray)
}

func (g *Game) drawShip(dst *core.Screen) {
	if g.ship == nil {
		return
	}
	frames := shipFrames[g.ship.State()]
	if len(frames) == 0 {
		frames = shipFrames["idle"]
	}
	glyph := frames[g.frame(g.ship)%len(frames)]
	dst.DrawTextColored(g.shipX, g.shipRow, glyph, core.ColorBrightGreen)
}

func (g *Game) drawBug(dst *core.Screen, b bug) {
	if !b.boss {
		dst.SetColored(b.x, b.y, bugFly[g.frame(b.anim)%len(bugFly)], core.ColorBrightRed)
		return
	}

	frames := bossFrames[b.anim.State()]
	if len(frames) == 0 {
		frames = bossFrames["idle"]
	}
	color := core.ColorMagenta
	if b.anim.State() == "hurt" {
		color = core.ColorBrightYellow
	}
	dst.DrawTextColored(b.x, b.y, frames[g.frame(b.anim)%len(frames)], color)
}

func (g *Game) drawDrop(dst *core.Screen, d drop) {
	glyph, ok := dropGlyphs[d.kind]
	if !ok {
		glyph = '?'
	}
	color := core.ColorYellow
	if g.frame(d.anim) == 1 {
		color = core.ColorBrightYellow
	}
	dst.SetColored(d.x, d.y, glyph, color)
}

func (g *Game) drawEffect(dst *core.Screen, e effect) {
	f := g.frame(e.anim)
	switch {
	case e.text != "":
		// Popups rise one row every two frames
		dst.DrawTextColored(e.x, max(e.y-f/2, fieldTop), e.text, core.ColorBrightYellow)
	case e.boss:
		dst.DrawTextColored(e.x, e.y, bossDefeated[min(f, len(bossDefeated)-1)], core.ColorOrange)
	default:
		dst.SetColored(e.x, e.y, bugExplode[min(f, len(bugExplode)-1)], core.ColorOrange)
	}
}

func (g *Game) drawPaused(dst *core.Screen) {
	y := dst.Height() / 2
	if g.sample("ui", "blink", g.pausedTicks) == 0 {
		dst.DrawTextCentered(y, " PAUSED ", core.ColorBrightYellow)
	}
	dst.DrawTextCentered(y+1, " Press P to resume ", core.ColorGray)
}

func (g *Game) drawTally(dst *core.Screen) {
	title := "GAME OVER"
	color := core.ColorRed
	if g.cleared {
		title = "STAGE CLEAR"
		color = core.ColorBrightGreen
	}

	lines := make([]string, 0, len(g.tally.Lines)+3)
	for _, l := range g.tally.Lines {
		lines = append(lines, fmt.Sprintf("%-16s %8d", l.Label, l.Points))
	}
	lines = append(lines, strings.Repeat("─", 25))
	lines = append(lines, fmt.Sprintf("%-16s %8d", "TOTAL", g.tally.Total))
	lines = append(lines, "", "R restart  Q quit")
	g.drawMessage(dst, title, lines, color)
}

// drawMessage draws a bordered box with a title and body lines, centered.
func (g *Game) drawMessage(dst *core.Screen, title string, lines []string, color core.Color) {
	w, h := dst.Width(), dst.Height()

	boxW := utf8.RuneCountInString(title)
	for _, l := range lines {
		boxW = max(boxW, utf8.RuneCountInString(l))
	}
	boxW = min(boxW+4, w)
	boxH := min(len(lines)+4, h)
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawBox(boxX, boxY, boxW, boxH, color)
	dst.DrawTextCentered(boxY+1, title, color)
	textW := max(boxW-4, 0)
	for i, l := range lines {
		if textW == 0 || boxY+3+i >= boxY+boxH-1 {
			break
		}
		if utf8.RuneCountInString(l) > textW {
			l = string([]rune(l)[:textW])
		}
		dst.DrawTextColored(boxX+2, boxY+3+i, l, core.ColorDefault)
	}
}
