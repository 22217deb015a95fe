package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dmogo/internal/model"
)

func TestWriterLittleEndian(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint8(0xAB)
	w.WriteShort(0x0102)
	w.WriteInt(0x01020304)
	w.WriteLong(0x0102030405060708)

	assert.Equal(t, []byte{
		0xAB,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, w.Bytes())
}

func TestWriterStringUTF16(t *testing.T) {
	w := NewWriter(8)
	w.WriteString("Ab")
	assert.Equal(t, []byte{'A', 0x00, 'b', 0x00, 0x00, 0x00}, w.Bytes())
}

func TestCodecMonsterDisappear(t *testing.T) {
	data := NewCodec().MonsterDisappear(7)
	require.Len(t, data, 5)
	assert.Equal(t, OpcodeMonsterDisappear, data[0])
	assert.Equal(t, []byte{0x07, 0x00, 0x00, 0x00}, data[1:])
}

func TestCodecTamerAttack(t *testing.T) {
	data := NewCodec().TamerAttack(1, 2, 45, true, false)
	require.Len(t, data, 15)
	assert.Equal(t, OpcodeTamerAttack, data[0])
	assert.Equal(t, byte(45), data[9], "damage is little-endian")
	assert.Equal(t, byte(1), data[13], "killed flag")
	assert.Equal(t, byte(0), data[14], "miss flag")
}

func TestCodecMonsterAppearCarriesName(t *testing.T) {
	m := model.NewMonster(1, 70001, model.KindStandard, model.NewLocation(3, 4), model.MonsterConfig{
		TemplateID: 1001,
		Name:       "Kunemon",
		Stats:      model.Stats{Level: 8, MaxHP: 100, HP: 100},
	}, time.Now())

	data := NewCodec().MonsterAppear(m)
	assert.Equal(t, OpcodeMonsterAppear, data[0])
	// Name is UTF-16LE null-terminated at the tail.
	tail := data[len(data)-16:]
	assert.Equal(t, []byte{'K', 0, 'u', 0, 'n', 0, 'e', 0, 'm', 0, 'o', 0, 'n', 0, 0, 0}, tail)
}

func TestCodecRaidRankingCount(t *testing.T) {
	ranks := []model.DamageRank{
		{SessionID: 9, Damage: 1000},
		{SessionID: 4, Damage: 500},
	}
	data := NewCodec().RaidRanking(ranks)
	require.Len(t, data, 2+2*12)
	assert.Equal(t, OpcodeRaidRanking, data[0])
	assert.Equal(t, byte(2), data[1])
	assert.Equal(t, byte(9), data[2], "first rank is the top damager")
}
