package model

// Codec encodes outbound simulation events into wire packets. The binary
// wire format lives outside the simulation core; the core only carries
// the resulting bytes to sessions. Implementations must be safe for
// concurrent use.
type Codec interface {
	// Creature visibility and movement.
	MonsterAppear(m *Monster) []byte
	MonsterDisappear(handler int32) []byte
	MonsterMoveSync(m *Monster) []byte
	MonsterWalk(m *Monster, to Location) []byte

	// Combat outcomes. Hit, kill-on-hit and miss are distinct packets.
	AttackHit(attackerHandler int32, targetSession uint32, damage int32, killed bool) []byte
	AttackMiss(attackerHandler int32, targetSession uint32) []byte
	SkillHit(attackerHandler int32, targetSession uint32, skillID, damage int32, killed bool) []byte
	TamerAttack(sessionID uint32, targetHandler int32, damage int32, killed, miss bool) []byte
	CombatOff(handler int32) []byte
	RemoveDebuff(handler int32, skillID int32) []byte

	// Drops.
	DropAppear(d *Drop) []byte
	DropDisappear(handler int32) []byte

	// Sessions.
	TamerAppear(t *Tamer) []byte
	TamerDisappear(sessionID uint32) []byte
	ResourceSync(t *Tamer) []byte
	PartyPositions(p *Party) []byte

	// Rewards.
	ExpGain(sessionID uint32, exp int64) []byte
	LevelUp(t *Tamer) []byte
	ItemGain(sessionID uint32, itemID, count int32) []byte
	RaidRanking(ranks []DamageRank) []byte

	// SystemMessage is the plain-text fallback used when a referenced
	// template is missing and the affected action is skipped.
	SystemMessage(text string) []byte
}
