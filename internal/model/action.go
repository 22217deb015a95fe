package model

// Action represents the AI state of a combatant.
type Action int32

const (
	// ActionRespawn - combatant resets position/health and re-enters the world
	ActionRespawn Action = iota
	// ActionWait - combatant is passive, scanning for targets or waiting out the death grace period
	ActionWait
	// ActionWalk - combatant is walking (random drift or chase step)
	ActionWalk
	// ActionAttack - combatant is attacking its current target
	ActionAttack
	// ActionUseAttackSkill - combatant is casting an attack skill
	ActionUseAttackSkill
	// ActionGiveUp - combatant abandons pursuit and returns to its spawn point
	ActionGiveUp
	// ActionCrowdControl - combatant is held by a disabling debuff
	ActionCrowdControl
	// ActionReward - combatant is dead, rewards are being resolved (runs exactly once)
	ActionReward
	// ActionDestroy - terminal: combatant is removed on the next maintenance pass
	ActionDestroy
)

// String returns human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionRespawn:
		return "RESPAWN"
	case ActionWait:
		return "WAIT"
	case ActionWalk:
		return "WALK"
	case ActionAttack:
		return "ATTACK"
	case ActionUseAttackSkill:
		return "USE_ATTACK_SKILL"
	case ActionGiveUp:
		return "GIVE_UP"
	case ActionCrowdControl:
		return "CROWD_CONTROL"
	case ActionReward:
		return "REWARD"
	case ActionDestroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}
