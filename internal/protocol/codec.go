package protocol

import "github.com/udisondev/dmogo/internal/model"

// S2C opcodes.
const (
	OpcodeMonsterAppear    byte = 0x10
	OpcodeMonsterDisappear byte = 0x11
	OpcodeMonsterMoveSync  byte = 0x12
	OpcodeMonsterWalk      byte = 0x13

	OpcodeAttackHit    byte = 0x20
	OpcodeAttackMiss   byte = 0x21
	OpcodeSkillHit     byte = 0x22
	OpcodeTamerAttack  byte = 0x23
	OpcodeCombatOff    byte = 0x24
	OpcodeRemoveDebuff byte = 0x25

	OpcodeDropAppear    byte = 0x30
	OpcodeDropDisappear byte = 0x31

	OpcodeTamerAppear    byte = 0x40
	OpcodeTamerDisappear byte = 0x41
	OpcodeResourceSync   byte = 0x42
	OpcodePartyPositions byte = 0x43

	OpcodeExpGain     byte = 0x50
	OpcodeLevelUp     byte = 0x51
	OpcodeItemGain    byte = 0x52
	OpcodeRaidRanking byte = 0x53

	OpcodeSystemMessage byte = 0x60
)

var _ model.Codec = (*Codec)(nil)

// Codec is the binary implementation of the simulation's outbound
// packet surface. Stateless; safe for concurrent use.
type Codec struct{}

// NewCodec creates the wire codec.
func NewCodec() *Codec { return &Codec{} }

func (Codec) MonsterAppear(m *model.Monster) []byte {
	loc := m.Location()
	stats := m.Stats()
	w := NewWriter(32 + len(m.Name())*2)
	w.WriteUint8(OpcodeMonsterAppear)
	w.WriteInt(m.Handler())
	w.WriteInt(m.GeneralHandler())
	w.WriteInt(loc.X)
	w.WriteInt(loc.Y)
	w.WriteInt(stats.HP)
	w.WriteInt(stats.MaxHP)
	w.WriteShort(stats.Level)
	w.WriteString(m.Name())
	return w.Bytes()
}

func (Codec) MonsterDisappear(handler int32) []byte {
	w := NewWriter(5)
	w.WriteUint8(OpcodeMonsterDisappear)
	w.WriteInt(handler)
	return w.Bytes()
}

func (Codec) MonsterMoveSync(m *model.Monster) []byte {
	loc := m.Location()
	w := NewWriter(13)
	w.WriteUint8(OpcodeMonsterMoveSync)
	w.WriteInt(m.Handler())
	w.WriteInt(loc.X)
	w.WriteInt(loc.Y)
	return w.Bytes()
}

func (Codec) MonsterWalk(m *model.Monster, to model.Location) []byte {
	w := NewWriter(13)
	w.WriteUint8(OpcodeMonsterWalk)
	w.WriteInt(m.Handler())
	w.WriteInt(to.X)
	w.WriteInt(to.Y)
	return w.Bytes()
}

func (Codec) AttackHit(attackerHandler int32, targetSession uint32, damage int32, killed bool) []byte {
	w := NewWriter(14)
	w.WriteUint8(OpcodeAttackHit)
	w.WriteInt(attackerHandler)
	w.WriteUint(targetSession)
	w.WriteInt(damage)
	w.WriteUint8(boolByte(killed))
	return w.Bytes()
}

func (Codec) AttackMiss(attackerHandler int32, targetSession uint32) []byte {
	w := NewWriter(9)
	w.WriteUint8(OpcodeAttackMiss)
	w.WriteInt(attackerHandler)
	w.WriteUint(targetSession)
	return w.Bytes()
}

func (Codec) SkillHit(attackerHandler int32, targetSession uint32, skillID, damage int32, killed bool) []byte {
	w := NewWriter(18)
	w.WriteUint8(OpcodeSkillHit)
	w.WriteInt(attackerHandler)
	w.WriteUint(targetSession)
	w.WriteInt(skillID)
	w.WriteInt(damage)
	w.WriteUint8(boolByte(killed))
	return w.Bytes()
}

func (Codec) TamerAttack(sessionID uint32, targetHandler int32, damage int32, killed, miss bool) []byte {
	w := NewWriter(15)
	w.WriteUint8(OpcodeTamerAttack)
	w.WriteUint(sessionID)
	w.WriteInt(targetHandler)
	w.WriteInt(damage)
	w.WriteUint8(boolByte(killed))
	w.WriteUint8(boolByte(miss))
	return w.Bytes()
}

func (Codec) CombatOff(handler int32) []byte {
	w := NewWriter(5)
	w.WriteUint8(OpcodeCombatOff)
	w.WriteInt(handler)
	return w.Bytes()
}

func (Codec) RemoveDebuff(handler int32, skillID int32) []byte {
	w := NewWriter(9)
	w.WriteUint8(OpcodeRemoveDebuff)
	w.WriteInt(handler)
	w.WriteInt(skillID)
	return w.Bytes()
}

func (Codec) DropAppear(d *model.Drop) []byte {
	loc := d.Location()
	p := d.Payload()
	w := NewWriter(29)
	w.WriteUint8(OpcodeDropAppear)
	w.WriteInt(d.Handler())
	w.WriteInt(loc.X)
	w.WriteInt(loc.Y)
	w.WriteInt(p.ItemID)
	w.WriteInt(p.Count)
	w.WriteLong(p.Bits)
	return w.Bytes()
}

func (Codec) DropDisappear(handler int32) []byte {
	w := NewWriter(5)
	w.WriteUint8(OpcodeDropDisappear)
	w.WriteInt(handler)
	return w.Bytes()
}

func (Codec) TamerAppear(t *model.Tamer) []byte {
	loc := t.Location()
	stats := t.Stats()
	w := NewWriter(24 + len(t.Name())*2)
	w.WriteUint8(OpcodeTamerAppear)
	w.WriteUint(t.ID())
	w.WriteInt(loc.X)
	w.WriteInt(loc.Y)
	w.WriteShort(stats.Level)
	w.WriteString(t.Name())
	return w.Bytes()
}

func (Codec) TamerDisappear(sessionID uint32) []byte {
	w := NewWriter(5)
	w.WriteUint8(OpcodeTamerDisappear)
	w.WriteUint(sessionID)
	return w.Bytes()
}

func (Codec) ResourceSync(t *model.Tamer) []byte {
	partner := t.Partner()
	w := NewWriter(25)
	w.WriteUint8(OpcodeResourceSync)
	w.WriteUint(t.ID())
	w.WriteInt(partner.HP)
	w.WriteInt(partner.MaxHP)
	w.WriteLong(t.Exp())
	return w.Bytes()
}

func (Codec) PartyPositions(p *model.Party) []byte {
	members := p.Members()
	w := NewWriter(6 + len(members)*12)
	w.WriteUint8(OpcodePartyPositions)
	w.WriteInt(p.ID())
	w.WriteUint8(byte(len(members)))
	for _, m := range members {
		loc := m.Location()
		w.WriteUint(m.ID())
		w.WriteInt(loc.X)
		w.WriteInt(loc.Y)
	}
	return w.Bytes()
}

func (Codec) ExpGain(sessionID uint32, exp int64) []byte {
	w := NewWriter(13)
	w.WriteUint8(OpcodeExpGain)
	w.WriteUint(sessionID)
	w.WriteLong(exp)
	return w.Bytes()
}

func (Codec) LevelUp(t *model.Tamer) []byte {
	stats := t.Stats()
	w := NewWriter(19)
	w.WriteUint8(OpcodeLevelUp)
	w.WriteUint(t.ID())
	w.WriteShort(stats.Level)
	w.WriteInt(stats.MaxHP)
	w.WriteInt(stats.Attack)
	w.WriteInt(stats.Defense)
	return w.Bytes()
}

func (Codec) ItemGain(sessionID uint32, itemID, count int32) []byte {
	w := NewWriter(13)
	w.WriteUint8(OpcodeItemGain)
	w.WriteUint(sessionID)
	w.WriteInt(itemID)
	w.WriteInt(count)
	return w.Bytes()
}

func (Codec) RaidRanking(ranks []model.DamageRank) []byte {
	w := NewWriter(2 + len(ranks)*12)
	w.WriteUint8(OpcodeRaidRanking)
	w.WriteUint8(byte(len(ranks)))
	for _, r := range ranks {
		w.WriteUint(r.SessionID)
		w.WriteLong(r.Damage)
	}
	return w.Bytes()
}

func (Codec) SystemMessage(text string) []byte {
	w := NewWriter(3 + len(text)*2)
	w.WriteUint8(OpcodeSystemMessage)
	w.WriteString(text)
	return w.Bytes()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
