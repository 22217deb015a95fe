package world

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dmogo/internal/game/combat"
	"github.com/udisondev/dmogo/internal/model"
)

// Tick advances the instance by one simulation step. The three phases
// run concurrently and the tick completes only when all of them have
// finished. A panic in one phase is contained to that phase and
// surfaces as an error without corrupting the other two.
func (in *Instance) Tick(ctx context.Context, now time.Time) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return in.runPhase("sessions", func() { in.tickSessions(now) }) })
	g.Go(func() error { return in.runPhase("creatures", func() { in.tickCreatures(now) }) })
	g.Go(func() error { return in.runPhase("drops", func() { in.tickDrops(now) }) })
	return g.Wait()
}

func (in *Instance) runPhase(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tick phase panic",
				"instance", in.id,
				"map", in.mapID,
				"phase", name,
				"panic", r)
			err = fmt.Errorf("instance %d phase %s: %v", in.id, name, r)
		}
	}()
	fn()
	return nil
}

// --- Session maintenance phase ---

func (in *Instance) tickSessions(now time.Time) {
	cfg := in.deps.Cfg
	codec := in.deps.Codec
	enterSq, exitSq := in.radiiSq()

	sessions := in.Sessions()
	in.mu.RLock()
	rules := in.zoneRules
	shops := in.shops
	in.mu.RUnlock()

	for _, t := range sessions {
		loc := t.Location()

		for _, z := range rules {
			if z.Contains(loc) {
				t.RefreshDebuff(model.Debuff{
					SkillID:   z.SkillID,
					ExpiresAt: now.Add(z.Hold),
					Disabling: z.Disabling,
				})
			}
		}

		buff, syncRes, save, partyPos := t.TickTimers(cfg.BuffTicks, cfg.SyncTicks, cfg.SaveTicks, cfg.PartyTicks)
		if buff {
			for _, d := range t.ExpireDebuffs(now) {
				in.BroadcastViewersOf(t.ID(), codec.RemoveDebuff(int32(t.ID()), d.SkillID))
			}
		}
		if syncRes {
			t.Session().Send(codec.ResourceSync(t))
		}
		if save && in.deps.Persister != nil {
			in.deps.Persister.SaveTamer(t)
		}
		if partyPos && in.deps.Parties != nil {
			if p := in.deps.Parties.ByMember(t.ID()); p != nil {
				t.Session().Send(codec.PartyPositions(p))
			}
		}

		for _, other := range sessions {
			if other.ID() == t.ID() {
				continue
			}
			distSq := loc.DistanceSquared(other.Location())
			was := in.SeesSession(t.ID(), other.ID())
			vis := StillVisible(was, distSq, enterSq, exitSq)
			if vis == was {
				continue
			}
			in.setSessionVisible(t.ID(), other.ID(), vis)
			if vis {
				t.Session().Send(codec.TamerAppear(other))
			} else {
				t.Session().Send(codec.TamerDisappear(other.ID()))
			}
		}

		for _, s := range shops {
			distSq := loc.DistanceSquared(s.Location)
			was := in.SeesShop(t.ID(), s.Handler)
			vis := StillVisible(was, distSq, enterSq, exitSq)
			if vis != was {
				in.setShopVisible(t.ID(), s.Handler, vis)
			}
		}

		in.autoAttack(t, now)
	}
}

// autoAttack lands one basic swing per cooldown window against the
// tamer's selected monster.
func (in *Instance) autoAttack(t *model.Tamer, now time.Time) {
	handler := t.Target()
	if handler == 0 {
		return
	}
	m := in.Monster(handler)
	if m == nil || m.IsDead() {
		t.ClearTargetIf(handler)
		return
	}
	cfg := in.deps.Cfg
	if now.Sub(t.LastAttackAt()) < cfg.AttackCooldown {
		return
	}
	enterSq, _ := in.radiiSq()
	if t.Location().DistanceSquared(m.Location()) > enterSq {
		return
	}
	t.MarkAttack(now)

	// The partner creature does the fighting; the tamer's own stat
	// block only drives experience scaling.
	out := combat.Resolve(in.deps.RNG, t.Partner(), m.Stats(), false)
	if out.Miss {
		in.broadcastCombat(t, m, in.deps.Codec.TamerAttack(t.ID(), handler, 0, false, true))
		return
	}
	dealt, killed := m.ApplyDamage(t.ID(), out.Damage, now)
	m.MarkHit(now)
	if m.Target() == 0 {
		m.SetTarget(t.ID())
	}
	in.broadcastCombat(t, m, in.deps.Codec.TamerAttack(t.ID(), handler, dealt, killed, false))
	if killed {
		t.ClearTargetIf(handler)
		// Let the death chain run on the very next tick instead of
		// waiting out whatever gate the creature had armed.
		m.ScheduleNext(now, 0)
	}
}

// broadcastCombat delivers a combat packet to the monster's viewers and
// always to the attacker, who may stand outside the viewer set.
func (in *Instance) broadcastCombat(t *model.Tamer, m *model.Monster, data []byte) {
	if !m.IsViewer(t.ID()) {
		t.Session().Send(data)
	}
	in.BroadcastMonsterViewers(m, data)
}

// --- Creature AI phase ---

func (in *Instance) tickCreatures(now time.Time) {
	codec := in.deps.Codec
	enterSq, exitSq := in.radiiSq()

	sessions := in.Sessions()
	for _, m := range in.Monsters() {
		mLoc := m.Location()
		for _, t := range sessions {
			distSq := mLoc.DistanceSquared(t.Location())
			was := m.IsViewer(t.ID())
			vis := StillVisible(was, distSq, enterSq, exitSq)
			if vis == was {
				continue
			}
			in.setMonsterVisible(t.ID(), m, vis)
			if vis {
				t.Session().Send(codec.MonsterAppear(m))
			} else {
				t.Session().Send(codec.MonsterDisappear(m.Handler()))
			}
		}

		if m.ActionReady(now) && in.deps.Stepper != nil {
			in.deps.Stepper.Step(in, m, now)
		}
	}
}

// --- Drop lifecycle phase ---

func (in *Instance) tickDrops(now time.Time) {
	codec := in.deps.Codec
	enterSq, exitSq := in.radiiSq()

	in.applyPendingAdds()

	sessions := in.Sessions()
	for _, d := range in.Drops() {
		if d.Picked() {
			continue
		}
		if d.Expired(now) {
			in.RemoveDrop(d.Handler())
			continue
		}
		if in.deps.Cfg.LostDropBroadcast && d.BecameLost(now) {
			// Refresh the drop for everyone who already sees it so clients
			// learn the exclusive claim is gone.
			for _, t := range sessions {
				if in.SeesDrop(t.ID(), d.Handler()) {
					t.Session().Send(codec.DropAppear(d))
				}
			}
		}
		for _, t := range sessions {
			was := in.SeesDrop(t.ID(), d.Handler())
			vis := in.dropEligible(d, t.ID(), now)
			if vis {
				distSq := d.Location().DistanceSquared(t.Location())
				vis = StillVisible(was, distSq, enterSq, exitSq)
			}
			if vis == was {
				continue
			}
			in.setDropVisible(t.ID(), d.Handler(), vis)
			if vis {
				t.Session().Send(codec.DropAppear(d))
			} else {
				t.Session().Send(codec.DropDisappear(d.Handler()))
			}
		}
	}

	for _, d := range in.applyPendingRemovals() {
		in.Broadcast(codec.DropDisappear(d.Handler()))
	}
}

// dropEligible applies the ownership rule before the distance check: no
// owner, the owner themselves, or anyone once the grace window elapses.
func (in *Instance) dropEligible(d *model.Drop, sessionID uint32, now time.Time) bool {
	return d.VisibleTo(sessionID, now)
}

// --- Visibility set mutation ---

func (in *Instance) setSessionVisible(viewer, other uint32, vis bool) {
	in.mu.Lock()
	if vs, ok := in.vis[viewer]; ok {
		if vis {
			vs.sessions[other] = struct{}{}
		} else {
			delete(vs.sessions, other)
		}
	}
	in.mu.Unlock()
}

func (in *Instance) setShopVisible(viewer uint32, handler int32, vis bool) {
	in.mu.Lock()
	if vs, ok := in.vis[viewer]; ok {
		if vis {
			vs.shops[handler] = struct{}{}
		} else {
			delete(vs.shops, handler)
		}
	}
	in.mu.Unlock()
}

func (in *Instance) setMonsterVisible(viewer uint32, m *model.Monster, vis bool) {
	in.mu.Lock()
	if vs, ok := in.vis[viewer]; ok {
		if vis {
			vs.monsters[m.Handler()] = struct{}{}
		} else {
			delete(vs.monsters, m.Handler())
		}
	}
	in.mu.Unlock()
	if vis {
		m.AddViewer(viewer)
	} else {
		m.RemoveViewer(viewer)
	}
}

func (in *Instance) setDropVisible(viewer uint32, handler int32, vis bool) {
	in.mu.Lock()
	if vs, ok := in.vis[viewer]; ok {
		if vis {
			vs.drops[handler] = struct{}{}
		} else {
			delete(vs.drops, handler)
		}
	}
	in.mu.Unlock()
}
