// Package bugsweep implements a top-down shooter stage: the Maximus ship
// sweeps falling bugs and catches power-ups while a combo tracker scores
// every hit. The game owns the tick counter and drives both the tracker and
// the sprite sampler with it.
package bugsweep

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/core"
	"github.com/vovakirdan/speedrun-arcade/internal/registry"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

// GameID is the registry key of the stage.
const GameID = "bugsweep"

// Playfield layout
const (
	fieldTop  = 2 // First playfield row (HUD and separator above)
	shipWidth = 3
	bossWidth = 3
)

// requiredAnimations lists every sprite state the stage renders.
var requiredAnimations = [][2]string{
	{"maximus", "idle"},
	{"maximus", "shoot"},
	{"bug", "fly"},
	{"bug", "explode"},
	{"boss", "idle"},
	{"boss", "hurt"},
	{"boss", "defeated"},
	{"collectible", "bob"},
	{"collectible", "collect"},
	{"ui", "blink"},
	{"ui", "pulse"},
}

// Game implements the Bug Sweep stage.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.SpeedrunConfig
	override   *config.SpeedrunConfig // Set by NewWithConfig, bypasses file loading
	catalog    sprite.Catalog
	tracker    *scoring.Tracker
	difficulty *config.DifficultyManager
	rng        *rand.Rand

	tick       int // Ticks since start, the clock fed to tracker and sampler
	shipX      int // Left column of the ship
	shipRow    int
	ship       *sprite.Animator
	shootUntil int

	bugs        []bug
	drops       []drop
	projectiles []projectile
	effects     []effect

	nextSpawn   int
	nextCollect int
	defeated    int
	bosses      int
	lives       int
	hits        int

	paused      bool
	pausedTicks int // Drives the PAUSED blink while the stage clock is stopped
	gameOver    bool
	cleared     bool
	tally       scoring.Tally
	counter     scoreCounter
	err         error // Configuration error; the stage refuses to run
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// New creates a new Bug Sweep game instance that loads its config on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game that always uses cfg instead of loading files.
func NewWithConfig(cfg config.SpeedrunConfig) *Game {
	return &Game{override: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Bug Sweep"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime

	var cfg config.SpeedrunConfig
	var loadErr error
	if g.override != nil {
		cfg = *g.override
	} else {
		loaded, err := config.LoadSpeedrun(configPath)
		if err != nil {
			loaded = config.DefaultSpeedrunConfig()
			loadErr = err
		}
		if difficultyPreset != "" {
			config.ApplySpeedrunPreset(&loaded, difficultyPreset)
		}
		cfg = loaded
	}
	g.cfg = cfg

	g.tick = 0
	g.bugs = g.bugs[:0]
	g.drops = g.drops[:0]
	g.projectiles = g.projectiles[:0]
	g.effects = g.effects[:0]
	g.defeated = 0
	g.bosses = 0
	g.hits = 0
	g.lives = cfg.Stage.Lives
	g.paused = false
	g.pausedTicks = 0
	g.gameOver = false
	g.cleared = false
	g.tally = scoring.Tally{}
	g.counter = scoreCounter{}
	g.err = nil

	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.shipRow = runtime.ScreenH - 2
	g.shipX = (runtime.ScreenW - shipWidth) / 2
	g.shootUntil = 0
	g.nextSpawn = cfg.Stage.SpawnEvery
	g.nextCollect = cfg.Stage.CollectEvery

	err := loadErr
	if err == nil {
		err = g.init()
	}
	if err != nil {
		g.err = err
		g.gameOver = true
		g.tracker = nil
	}
}

// init builds the domain objects from config, surfacing any table errors.
func (g *Game) init() error {
	tables, err := g.cfg.Scoring.Tables()
	if err != nil {
		return err
	}
	catalog, err := g.cfg.Catalog()
	if err != nil {
		return err
	}
	for _, req := range requiredAnimations {
		if _, err := catalog.Lookup(req[0], req[1]); err != nil {
			return fmt.Errorf("config: animations: %w", err)
		}
	}
	if g.runtime.ScreenH < fieldTop+4 || g.runtime.ScreenW < shipWidth+2 {
		return fmt.Errorf("screen too small: %dx%d", g.runtime.ScreenW, g.runtime.ScreenH)
	}
	if err := validateStage(g.cfg.Stage); err != nil {
		return err
	}

	tracker, err := scoring.NewTracker(tables)
	if err != nil {
		return err
	}
	ship, err := sprite.NewAnimator(catalog, "maximus", "idle", 0)
	if err != nil {
		return err
	}

	g.catalog = catalog
	g.tracker = tracker
	g.ship = ship
	return nil
}

func validateStage(st config.StageConfig) error {
	checks := []struct {
		name  string
		value int
	}{
		{"duration_ticks", st.DurationTicks},
		{"lives", st.Lives},
		{"spawn_every", st.SpawnEvery},
		{"bug_fall_every", st.BugFallEvery},
		{"collect_fall_every", st.CollectFallEvery},
		{"projectile_every", st.ProjectileEvery},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("config: stage: %s must be positive, got %d", c.name, c.value)
		}
	}
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pausedTicks++
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionLeft) {
		g.shipX = max(0, g.shipX-1)
	}
	if in.Has(core.ActionRight) {
		g.shipX = min(g.runtime.ScreenW-shipWidth, g.shipX+1)
	}
	if in.Has(core.ActionFire) {
		g.fire()
	}

	g.moveProjectiles()
	g.moveBugs()
	g.moveDrops()
	g.expireEffects()
	g.spawn()
	g.updateShip()

	g.counter.Update(g.tracker.Score(), g.tick)

	if g.err == nil {
		g.checkEnd()
	}
	g.tick++

	return core.StepResult{State: g.State()}
}

// score forwards an event to the tracker. A tracker error is a
// configuration bug: the stage stops and shows it.
func (g *Game) score(typ scoring.EventType) int {
	points, err := g.tracker.AddPoints(g.tick, typ)
	if err != nil {
		g.fail(err)
		return 0
	}
	return points
}

// shipHit breaks the combo and costs a life.
func (g *Game) shipHit() {
	g.tracker.ResetCombo()
	g.hits++
	g.lives--
}

// checkEnd finishes the stage on quota, zero lives or time out.
func (g *Game) checkEnd() {
	switch {
	case g.cfg.Stage.BugQuota > 0 && g.defeated >= g.cfg.Stage.BugQuota:
		g.finish(true)
	case g.lives <= 0:
		g.finish(false)
	case g.tick+1 >= g.cfg.Stage.DurationTicks:
		g.finish(false)
	}
}

func (g *Game) finish(cleared bool) {
	remaining := 0
	if left := g.cfg.Stage.DurationTicks - (g.tick + 1); left > 0 {
		remaining = left / g.runtime.TickRate
	}

	tally, err := scoring.ComputeTally(g.tracker, scoring.TallyInput{
		Cleared:          cleared,
		Hits:             g.hits,
		RemainingSeconds: remaining,
	})
	if err != nil {
		g.err = err
	}

	g.tally = tally
	g.cleared = cleared
	g.gameOver = true
}

// State returns the current game state. After the stage ends the score is
// the tally total including bonuses.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Tick:     g.tick,
		GameOver: g.gameOver,
		Cleared:  g.cleared,
		Paused:   g.paused,
	}
	if g.tracker == nil {
		return st
	}

	st.Score = g.tracker.Score()
	if g.gameOver && g.err == nil {
		st.Score = g.tally.Total
	}
	st.Combo = g.tracker.Combo()
	st.MaxCombo = g.tracker.MaxCombo()
	return st
}

// ScoreEvents returns the combo tracker's audit log for this run.
func (g *Game) ScoreEvents() []scoring.Event {
	if g.tracker == nil {
		return nil
	}
	return g.tracker.Events()
}

// Tally returns the end-of-stage breakdown; empty while the stage runs.
func (g *Game) Tally() scoring.Tally {
	return g.tally
}

// Err returns the configuration error that stopped the stage, if any.
func (g *Game) Err() error {
	return g.err
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

var _ registry.ScoreEventSource = (*Game)(nil)
