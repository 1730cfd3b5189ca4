package bugsweep

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/core"
	"github.com/vovakirdan/speedrun-arcade/internal/registry"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func newTestGame(t *testing.T, mutate func(*config.SpeedrunConfig)) *Game {
	t.Helper()
	cfg := config.DefaultSpeedrunConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))
	if err := g.Err(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return g
}

func fireInput() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionFire)
	return in
}

// placeBug puts a stationary bug directly above the ship nose.
func placeBug(t *testing.T, g *Game, boss bool, hp int) {
	t.Helper()
	character, state := "bug", "fly"
	x := g.shipX + shipWidth/2
	if boss {
		character, state = "boss", "idle"
		x = g.shipX
	}
	a := g.animator(character, state)
	if a == nil {
		t.Fatalf("animator %s.%s: %v", character, state, g.Err())
	}
	g.bugs = append(g.bugs, bug{x: x, y: g.shipRow - 1, hp: hp, boss: boss, moveAt: 1 << 30, anim: a})
}

func idle(g *Game, ticks int) {
	for i := 0; i < ticks; i++ {
		g.Step(core.NewInputFrame())
	}
}

func TestGameDeterminism(t *testing.T) {
	// Same seed and inputs must produce the same run
	inputSequence := make([]core.InputFrame, 600)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		switch {
		case i%9 == 0:
			inputSequence[i].Set(core.ActionFire)
		case i%40 < 20:
			inputSequence[i].Set(core.ActionLeft)
		default:
			inputSequence[i].Set(core.ActionRight)
		}
	}

	run := func() (*Game, core.GameState) {
		g := NewWithConfig(config.DefaultSpeedrunConfig())
		g.Reset(testRuntime(12345))
		var st core.GameState
		for _, in := range inputSequence {
			st = g.Step(in).State
			if st.GameOver {
				break
			}
		}
		return g, st
	}

	g1, s1 := run()
	g2, s2 := run()

	if s1 != s2 {
		t.Errorf("Determinism failed: states differ. Run1=%+v, Run2=%+v", s1, s2)
	}
	e1, e2 := g1.ScoreEvents(), g2.ScoreEvents()
	if len(e1) != len(e2) {
		t.Fatalf("Determinism failed: event counts differ. Run1=%d, Run2=%d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("event %d differs: %+v vs %+v", i, e1[i], e2[i])
		}
	}
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t, nil)

	placeBug(t, g, false, 1)
	g.Step(fireInput())
	idle(g, 50)

	g.Reset(testRuntime(1))

	st := g.State()
	if st.Score != 0 || st.Combo != 0 || st.Tick != 0 {
		t.Errorf("Reset should clear state, got %+v", st)
	}
	if g.defeated != 0 || g.lives != g.cfg.Stage.Lives {
		t.Errorf("Reset should restore counters, defeated=%d lives=%d", g.defeated, g.lives)
	}
	if len(g.ScoreEvents()) != 0 {
		t.Errorf("Reset should clear the event log, got %d events", len(g.ScoreEvents()))
	}
	if g.gameOver || g.paused {
		t.Error("Reset should clear gameOver and paused flags")
	}
}

func TestShootingBugsBuildsCombo(t *testing.T) {
	g := newTestGame(t, nil)

	placeBug(t, g, false, 1)
	g.Step(fireInput())

	if got := g.tracker.Score(); got != 150 {
		t.Fatalf("score after first kill = %d, want 150", got)
	}
	if g.defeated != 1 {
		t.Errorf("defeated = %d, want 1", g.defeated)
	}

	// Wait out the shoot cooldown, still inside the combo window
	idle(g, g.cfg.Stage.ShootTicks-1)
	placeBug(t, g, false, 1)
	g.Step(fireInput())

	st := g.State()
	if st.Score != 150+225 {
		t.Errorf("score = %d, want %d", st.Score, 150+225)
	}
	if st.Combo != 2 || st.MaxCombo != 2 {
		t.Errorf("combo = %d max = %d, want 2 and 2", st.Combo, st.MaxCombo)
	}

	events := g.ScoreEvents()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Tick != 0 || events[1].Tick != g.cfg.Stage.ShootTicks {
		t.Errorf("event ticks = %d, %d", events[0].Tick, events[1].Tick)
	}
	if events[1].Type != scoring.EventBug || events[1].Multiplier != 1.5 {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestFireCooldown(t *testing.T) {
	g := newTestGame(t, nil)

	g.Step(fireInput())
	g.Step(fireInput())
	if len(g.projectiles) != 1 {
		t.Errorf("projectiles = %d, want 1 during cooldown", len(g.projectiles))
	}
	if g.ship.State() != "shoot" {
		t.Errorf("ship state = %q, want shoot", g.ship.State())
	}

	idle(g, g.cfg.Stage.ShootTicks)
	if g.ship.State() != "idle" {
		t.Errorf("ship state = %q, want idle after cooldown", g.ship.State())
	}
}

func TestShipHitBreaksCombo(t *testing.T) {
	g := newTestGame(t, nil)

	placeBug(t, g, false, 1)
	g.Step(fireInput())

	// A bug falling onto the ship this tick
	a := g.animator("bug", "fly")
	g.bugs = append(g.bugs, bug{x: g.shipX, y: g.shipRow - 1, hp: 1, moveAt: g.tick, anim: a})
	g.Step(core.NewInputFrame())

	st := g.State()
	if st.Combo != 0 {
		t.Errorf("combo = %d, want 0 after hit", st.Combo)
	}
	if st.Score != 150 {
		t.Errorf("score = %d, want 150 (hit keeps score)", st.Score)
	}
	if g.lives != g.cfg.Stage.Lives-1 || g.hits != 1 {
		t.Errorf("lives = %d hits = %d", g.lives, g.hits)
	}
	if len(g.bugs) != 0 {
		t.Errorf("bug should be removed after hitting the ship, got %d", len(g.bugs))
	}
}

func TestCatchCollectible(t *testing.T) {
	g := newTestGame(t, nil)

	a := g.animator("collectible", "bob")
	g.drops = append(g.drops, drop{x: g.shipX, y: g.shipRow - 1, kind: scoring.EventPowerup, moveAt: g.tick, anim: a})
	g.Step(core.NewInputFrame())

	if got := g.tracker.Score(); got != 200 {
		t.Errorf("score = %d, want 200", got)
	}
	if len(g.drops) != 0 {
		t.Errorf("drop should be consumed, got %d", len(g.drops))
	}
	if len(g.effects) != 1 || g.effects[0].text != "+200" {
		t.Errorf("expected a +200 popup, got %+v", g.effects)
	}
}

func TestBossTakesSeveralHits(t *testing.T) {
	g := newTestGame(t, func(c *config.SpeedrunConfig) {
		c.Stage.BossHP = 2
	})

	placeBug(t, g, true, 2)
	g.Step(fireInput())

	if len(g.bugs) != 1 || g.bugs[0].hp != 1 {
		t.Fatalf("boss should survive the first hit, bugs = %+v", g.bugs)
	}
	if g.bugs[0].anim.State() != "hurt" {
		t.Errorf("boss state = %q, want hurt", g.bugs[0].anim.State())
	}
	if g.tracker.Score() != 0 {
		t.Errorf("non-lethal boss hit should not score, got %d", g.tracker.Score())
	}

	idle(g, g.cfg.Stage.ShootTicks-1)
	g.Step(fireInput())

	if len(g.bugs) != 0 {
		t.Fatalf("boss should be defeated, bugs = %+v", g.bugs)
	}
	if got := g.tracker.Score(); got != 5000 {
		t.Errorf("score = %d, want 5000", got)
	}
}

func TestBossSpawnsAfterQuota(t *testing.T) {
	g := newTestGame(t, func(c *config.SpeedrunConfig) {
		c.Stage.BossEvery = 1
	})

	placeBug(t, g, false, 1)
	g.Step(fireInput())

	g.nextSpawn = g.tick
	g.Step(core.NewInputFrame())

	if !g.bossAlive() {
		t.Fatal("expected a boss after the first defeat")
	}
	if g.bosses != 1 {
		t.Errorf("bosses = %d, want 1", g.bosses)
	}
}

func TestStageClearedOnQuota(t *testing.T) {
	g := newTestGame(t, func(c *config.SpeedrunConfig) {
		c.Stage.BugQuota = 1
	})

	placeBug(t, g, false, 1)
	st := g.Step(fireInput()).State

	if !st.GameOver || !st.Cleared {
		t.Fatalf("stage should be cleared, state = %+v", st)
	}

	// 150 stage + 500 complete + 1000 no hit + 50 * 89 seconds
	want := 150 + 500 + 1000 + 50*89
	if st.Score != want {
		t.Errorf("final score = %d, want %d", st.Score, want)
	}
	if g.Tally().Total != want {
		t.Errorf("tally total = %d, want %d", g.Tally().Total, want)
	}

	// Stepping after the end changes nothing
	after := g.Step(fireInput()).State
	if after != st {
		t.Errorf("state changed after game over: %+v -> %+v", st, after)
	}
}

func TestGameOverOnLives(t *testing.T) {
	g := newTestGame(t, func(c *config.SpeedrunConfig) {
		c.Stage.Lives = 1
	})

	a := g.animator("bug", "fly")
	g.bugs = append(g.bugs, bug{x: g.shipX, y: g.shipRow - 1, hp: 1, moveAt: g.tick, anim: a})
	st := g.Step(core.NewInputFrame()).State

	if !st.GameOver || st.Cleared {
		t.Fatalf("expected game over without clear, state = %+v", st)
	}
	if len(g.Tally().Lines) != 1 {
		t.Errorf("failed stage should only tally the stage score, got %+v", g.Tally().Lines)
	}
}

func TestTimeLimit(t *testing.T) {
	g := newTestGame(t, func(c *config.SpeedrunConfig) {
		c.Stage.DurationTicks = 10
	})

	idle(g, 9)
	if g.State().GameOver {
		t.Fatal("game should still run before the time limit")
	}
	g.Step(core.NewInputFrame())
	if !g.State().GameOver {
		t.Error("game should end at the time limit")
	}
}

func TestPauseFreezesClock(t *testing.T) {
	g := newTestGame(t, nil)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	idle(g, 30)

	if g.tick != 0 {
		t.Errorf("tick advanced while paused: %d", g.tick)
	}
	if g.pausedTicks != 31 {
		t.Errorf("pausedTicks = %d, want 31", g.pausedTicks)
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestInvalidConfigSurfaces(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.SpeedrunConfig)
		want   error
	}{
		{
			name: "decreasing multipliers",
			mutate: func(c *config.SpeedrunConfig) {
				c.Scoring.Multipliers[3] = 0.5
			},
			want: scoring.ErrInvalidTables,
		},
		{
			name: "missing animation",
			mutate: func(c *config.SpeedrunConfig) {
				delete(c.Animations, "bug")
			},
			want: sprite.ErrUnknownAnimation,
		},
		{
			name: "zero frames",
			mutate: func(c *config.SpeedrunConfig) {
				c.Animations["ui"]["blink"] = config.AnimationConfig{Frames: 0, TicksPerFrame: 30}
			},
			want: sprite.ErrInvalidDescriptor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultSpeedrunConfig()
			tt.mutate(&cfg)
			g := NewWithConfig(cfg)
			g.Reset(testRuntime(1))

			if !errors.Is(g.Err(), tt.want) {
				t.Fatalf("Err() = %v, want %v", g.Err(), tt.want)
			}
			if !g.State().GameOver {
				t.Error("a config error should stop the stage")
			}

			screen := core.NewScreen(80, 24)
			g.Render(screen)
			if !strings.Contains(screen.String(), "CONFIG ERROR") {
				t.Error("render should show the config error")
			}
		})
	}
}

func TestConfigFileErrorsSurface(t *testing.T) {
	badYAML := filepath.Join(t.TempDir(), "speedrun.yaml")
	if err := os.WriteFile(badYAML, []byte("scoring: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		is   error
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.yaml"), is: fs.ErrNotExist},
		{name: "bad yaml", path: badYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetConfigPath(tt.path)
			t.Cleanup(func() { SetConfigPath("") })

			g := New()
			g.Reset(testRuntime(1))

			if g.Err() == nil {
				t.Fatal("a broken config file should not fall back to defaults")
			}
			if tt.is != nil && !errors.Is(g.Err(), tt.is) {
				t.Errorf("Err() = %v, want %v", g.Err(), tt.is)
			}
			if !g.State().GameOver {
				t.Error("a config error should stop the stage")
			}
			if st := g.Step(core.NewInputFrame()); st.State.Tick != 0 {
				t.Errorf("stage advanced to tick %d", st.State.Tick)
			}

			screen := core.NewScreen(80, 24)
			g.Render(screen)
			if !strings.Contains(screen.String(), "CONFIG ERROR") {
				t.Error("render should show the config error")
			}
		})
	}
}

func TestRenderTinyScreen(t *testing.T) {
	for _, size := range [][2]int{{3, 20}, {1, 1}, {4, 3}} {
		g := NewWithConfig(config.DefaultSpeedrunConfig())
		g.Reset(core.RuntimeConfig{ScreenW: size[0], ScreenH: size[1], TickRate: 60, Seed: 1})
		if g.Err() == nil {
			t.Fatalf("%dx%d: expected a screen size error", size[0], size[1])
		}

		// Must not panic.
		g.Render(core.NewScreen(size[0], size[1]))
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, nil)
	screen := core.NewScreen(80, 24)

	g.Render(screen)

	if !strings.Contains(screen.Row(0), "SCORE 0000000") {
		t.Errorf("HUD row = %q", screen.Row(0))
	}
	if !strings.Contains(screen.Row(g.shipRow), "/A\\") {
		t.Errorf("ship row = %q", screen.Row(g.shipRow))
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatalf("%q should be registered", GameID)
	}
	g, err := registry.Create(GameID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.(registry.ScoreEventSource); !ok {
		t.Error("bugsweep should expose its score events")
	}
}
