package bugsweep

import (
	"fmt"

	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

// bug is a falling enemy. Bosses are wider and take several hits.
type bug struct {
	x, y   int
	hp     int
	boss   bool
	moveAt int // Tick of the next fall step
	anim   *sprite.Animator
}

func (b bug) width() int {
	if b.boss {
		return bossWidth
	}
	return 1
}

func (b bug) covers(x int) bool {
	return x >= b.x && x < b.x+b.width()
}

// drop is a falling collectible caught by the ship.
type drop struct {
	x, y   int
	kind   scoring.EventType
	moveAt int
	anim   *sprite.Animator
}

type projectile struct {
	x, y   int
	moveAt int
}

// effect is a one-shot animation: explosions and point popups.
type effect struct {
	x, y int
	text string // Popup text, empty for explosions
	boss bool
	anim *sprite.Animator
}

// collectibleKinds are the event types a drop can carry.
var collectibleKinds = []scoring.EventType{
	scoring.EventQuestion,
	scoring.EventCode,
	scoring.EventPowerup,
}

// fail stops the stage on the first internal error.
func (g *Game) fail(err error) {
	if g.err == nil {
		g.err = err
	}
	g.gameOver = true
}

// animator starts an animation at the current tick.
func (g *Game) animator(character, state string) *sprite.Animator {
	a, err := sprite.NewAnimator(g.catalog, character, state, g.tick)
	if err != nil {
		g.fail(err)
		return nil
	}
	return a
}

func (g *Game) setState(a *sprite.Animator, state string) {
	if a == nil {
		return
	}
	if err := a.SetState(state, g.tick); err != nil {
		g.fail(err)
	}
}

// fire launches a projectile from the ship nose; the shoot pose doubles as
// the cooldown.
func (g *Game) fire() {
	if g.tick < g.shootUntil {
		return
	}
	g.projectiles = append(g.projectiles, projectile{
		x:      g.shipX + shipWidth/2,
		y:      g.shipRow - 1,
		moveAt: g.tick + g.cfg.Stage.ProjectileEvery,
	})
	g.shootUntil = g.tick + g.cfg.Stage.ShootTicks
	g.setState(g.ship, "shoot")
}

func (g *Game) updateShip() {
	if g.ship != nil && g.ship.State() == "shoot" && g.tick >= g.shootUntil {
		g.setState(g.ship, "idle")
	}
}

func (g *Game) moveProjectiles() {
	live := g.projectiles[:0]
	for _, p := range g.projectiles {
		if g.tick >= p.moveAt {
			p.y--
			p.moveAt = g.tick + g.cfg.Stage.ProjectileEvery
		}
		if p.y < fieldTop {
			continue
		}
		live = append(live, p)
	}
	g.projectiles = live
	g.resolveHits()
}

func (g *Game) moveBugs() {
	live := g.bugs[:0]
	for _, b := range g.bugs {
		if b.boss && b.anim != nil && b.anim.State() == "hurt" && b.anim.Done(g.tick) {
			g.setState(b.anim, "idle")
		}
		if g.tick >= b.moveAt {
			b.y++
			fall := g.cfg.Stage.BugFallEvery
			if b.boss {
				fall *= 2
			}
			b.moveAt = g.tick + fall
		}

		if b.y == g.shipRow && g.overlapsShip(b.x, b.width()) {
			g.shipHit()
			g.explode(b)
			continue
		}
		if b.y > g.shipRow {
			continue
		}
		live = append(live, b)
	}
	g.bugs = live
	g.resolveHits()
}

func (g *Game) moveDrops() {
	live := g.drops[:0]
	for _, d := range g.drops {
		if g.tick >= d.moveAt {
			d.y++
			d.moveAt = g.tick + g.cfg.Stage.CollectFallEvery
		}

		if d.y == g.shipRow && g.overlapsShip(d.x, 1) {
			g.collect(d)
			continue
		}
		if d.y > g.shipRow {
			continue
		}
		live = append(live, d)
	}
	g.drops = live
}

func (g *Game) overlapsShip(x, width int) bool {
	return x < g.shipX+shipWidth && x+width > g.shipX
}

// resolveHits removes every projectile that shares a cell with a bug.
func (g *Game) resolveHits() {
	if len(g.projectiles) == 0 || len(g.bugs) == 0 {
		return
	}

	shots := g.projectiles[:0]
	for _, p := range g.projectiles {
		idx := -1
		for i := range g.bugs {
			if g.bugs[i].y == p.y && g.bugs[i].covers(p.x) {
				idx = i
				break
			}
		}
		if idx < 0 {
			shots = append(shots, p)
			continue
		}
		g.damage(idx)
	}
	g.projectiles = shots

	live := g.bugs[:0]
	for _, b := range g.bugs {
		if b.hp > 0 {
			live = append(live, b)
		}
	}
	g.bugs = live
}

// damage applies one projectile hit to bugs[idx].
func (g *Game) damage(idx int) {
	b := &g.bugs[idx]
	if b.hp <= 0 {
		return
	}
	b.hp--
	if b.hp > 0 {
		g.setState(b.anim, "hurt")
		return
	}

	typ := scoring.EventBug
	if b.boss {
		typ = scoring.EventBossBug
	}
	points := g.score(typ)
	g.defeated++
	g.explode(*b)
	g.popup(b.x, b.y-1, points)
}

func (g *Game) collect(d drop) {
	points := g.score(d.kind)
	g.popup(d.x, d.y-1, points)
}

func (g *Game) explode(b bug) {
	character, state := "bug", "explode"
	if b.boss {
		character, state = "boss", "defeated"
	}
	if a := g.animator(character, state); a != nil {
		g.effects = append(g.effects, effect{x: b.x, y: b.y, boss: b.boss, anim: a})
	}
}

func (g *Game) popup(x, y, points int) {
	if points <= 0 {
		return
	}
	if a := g.animator("collectible", "collect"); a != nil {
		g.effects = append(g.effects, effect{x: x, y: max(y, fieldTop), text: fmt.Sprintf("+%d", points), anim: a})
	}
}

func (g *Game) expireEffects() {
	live := g.effects[:0]
	for _, e := range g.effects {
		if e.anim.Done(g.tick) {
			continue
		}
		live = append(live, e)
	}
	g.effects = live
}

// spawn adds bugs on the difficulty-scaled interval and collectibles on a
// fixed one. A boss replaces a regular bug every BossEvery defeats.
func (g *Game) spawn() {
	st := g.cfg.Stage
	w := g.runtime.ScreenW

	if g.tick >= g.nextSpawn {
		if st.BossEvery > 0 && g.defeated >= (g.bosses+1)*st.BossEvery && !g.bossAlive() {
			g.bosses++
			if a := g.animator("boss", "idle"); a != nil {
				g.bugs = append(g.bugs, bug{
					x:      g.rng.Intn(w - bossWidth + 1),
					y:      fieldTop,
					hp:     max(st.BossHP, 1),
					boss:   true,
					moveAt: g.tick + st.BugFallEvery*2,
					anim:   a,
				})
			}
		} else if a := g.animator("bug", "fly"); a != nil {
			g.bugs = append(g.bugs, bug{
				x:      g.rng.Intn(w),
				y:      fieldTop,
				hp:     1,
				moveAt: g.tick + st.BugFallEvery,
				anim:   a,
			})
		}
		score := 0
		if g.tracker != nil {
			score = g.tracker.Score()
		}
		g.nextSpawn = g.tick + g.difficulty.Interval(st.SpawnEvery, st.MinSpawnEvery, score, g.tick)
	}

	if st.CollectEvery > 0 && g.tick >= g.nextCollect {
		kind := collectibleKinds[g.rng.Intn(len(collectibleKinds))]
		if a := g.animator("collectible", "bob"); a != nil {
			g.drops = append(g.drops, drop{
				x:      g.rng.Intn(w),
				y:      fieldTop,
				kind:   kind,
				moveAt: g.tick + st.CollectFallEvery,
				anim:   a,
			})
		}
		g.nextCollect = g.tick + st.CollectEvery
	}
}

func (g *Game) bossAlive() bool {
	for _, b := range g.bugs {
		if b.boss {
			return true
		}
	}
	return false
}
