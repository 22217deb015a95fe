package model

// Attribute is the combatant attribute used for the asymmetric damage bonus.
type Attribute int8

const (
	AttributeNone Attribute = iota
	AttributeData
	AttributeVaccine
	AttributeVirus
)

// HasAdvantage reports whether a has type advantage over other.
// Data > Vaccine > Virus > Data.
func (a Attribute) HasAdvantage(other Attribute) bool {
	switch a {
	case AttributeData:
		return other == AttributeVaccine
	case AttributeVaccine:
		return other == AttributeVirus
	case AttributeVirus:
		return other == AttributeData
	default:
		return false
	}
}

// Element is the elemental alignment of a combatant.
type Element int8

const (
	ElementNone Element = iota
	ElementFire
	ElementIce
	ElementWater
	ElementThunder
	ElementWind
	ElementLand
	ElementWood
	ElementLight
	ElementDark
	ElementSteel
)

// elementCounter maps each element to the element it has advantage over.
var elementCounter = map[Element]Element{
	ElementFire:    ElementIce,
	ElementIce:     ElementWater,
	ElementWater:   ElementFire,
	ElementThunder: ElementWater,
	ElementWind:    ElementLand,
	ElementLand:    ElementThunder,
	ElementWood:    ElementLand,
	ElementLight:   ElementDark,
	ElementDark:    ElementLight,
	ElementSteel:   ElementLight,
}

// HasAdvantage reports whether e has elemental advantage over other.
func (e Element) HasAdvantage(other Element) bool {
	return other != ElementNone && elementCounter[e] == other
}

// Stats is the combat stat block shared by tamers, partners and monsters.
type Stats struct {
	Level        int16
	MaxHP        int32
	HP           int32
	Attack       int32
	Defense      int32
	CritChance   int16 // percent
	CritPower    int16 // percent of base damage added on crit
	BlockChance  int16 // percent
	MissChance   int16 // percent chance the attacker whiffs against this defender
	Attribute    Attribute
	Element      Element
	AttributeExp int32 // accumulated attribute experience, scales the advantage bonus
}

// Alive reports whether the stat block has health remaining.
func (s Stats) Alive() bool {
	return s.HP > 0
}
