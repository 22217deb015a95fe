package model

// DropEntry is one row of a creature's configured drop table.
type DropEntry struct {
	ItemID int32
	Min    int32
	Max    int32
	Chance float64 // 0..1 roll gate for this row
	// QuestOnly rows never enter the general roll; they are evaluated
	// against each damaging session's in-progress quest goals instead.
	QuestOnly bool
}

// BitsDrop is the optional currency drop of a creature.
type BitsDrop struct {
	Chance float64
	Min    int64
	Max    int64
}

// RewardConfig is the reward side of a creature template. Every spawned
// monster receives its own copy so payout may consume entries without
// racing other readers of the template.
type RewardConfig struct {
	Exp   int64 // base configured experience
	Drops []DropEntry
	Bits  BitsDrop

	// Raid marks creatures whose payout follows the damage ranking
	// instead of single-killer drop resolution.
	Raid bool
	// RankDrops holds per-rank item tables for raid payout: index 0 is
	// the table for the top damager, index 1 for second place, and so on.
	RankDrops [][]DropEntry
}

// Clone returns a deep copy of the reward configuration.
func (rc RewardConfig) Clone() RewardConfig {
	out := rc
	out.Drops = make([]DropEntry, len(rc.Drops))
	copy(out.Drops, rc.Drops)
	out.RankDrops = make([][]DropEntry, len(rc.RankDrops))
	for i, tbl := range rc.RankDrops {
		out.RankDrops[i] = make([]DropEntry, len(tbl))
		copy(out.RankDrops[i], tbl)
	}
	return out
}
