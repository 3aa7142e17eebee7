package combat

import (
	"fmt"
	"strings"
)

// AttackStyle is the classification of one observed attack.
type AttackStyle int

const (
	// StyleNone means no attack was recognised.
	StyleNone AttackStyle = iota
	Stab
	Slash
	Crush
	Ranged
	// Blitz is single-target ancient magic.
	Blitz
	// Barrage is multi-target ancient magic.
	Barrage
	SpecialStab
	SpecialSlash
	SpecialCrush
	SpecialRange
)

// Family groups styles by the formula set they use.
type Family int

const (
	FamilyNone Family = iota
	FamilyMelee
	FamilyRanged
	FamilyMagic
)

type styleDef struct {
	name       string
	root       AttackStyle
	special    bool
	family     Family
	animations []int
}

// styleDefs is indexed by AttackStyle.
var styleDefs = [...]styleDef{
	StyleNone: {name: "none", root: StyleNone},
	Stab: {name: "stab", root: Stab, family: FamilyMelee, animations: []int{
		381,  // spear/hasta
		386,  // sword lunge
		400,  // pickaxe/mace stab
		1068, // zamorakian spear
		8145, // ghrazi rapier
	}},
	Slash: {name: "slash", root: Slash, family: FamilyMelee, animations: []int{
		376,  // dagger slash
		390,  // sword/scimitar slash
		395,  // battleaxe slash
		407,  // 2h slash
		440,  // spear slash
		1658, // whip
		7045, // godsword slash
		7055, // godsword defensive
	}},
	Crush: {name: "crush", root: Crush, family: FamilyMelee, animations: []int{
		245,  // viggora's chainmace
		393,  // staff bash
		401,  // battleaxe/warhammer crush
		406,  // 2h crush
		414,  // staff crush
		422,  // punch
		423,  // kick
		1665, // granite maul
		3298, // abyssal bludgeon
		7054, // godsword smash
		7516, // elder maul
	}},
	Ranged: {name: "ranged", root: Ranged, family: FamilyRanged, animations: []int{
		426,  // bows
		929,  // knives
		4230, // crossbows
		5061, // blowpipe
		6600, // darts
		7218, // ballista
		7552, // rune/dragon crossbow
		7617, // chinchompa
	}},
	Blitz: {name: "blitz", root: Blitz, family: FamilyMagic, animations: []int{
		1978, // ancient single target
	}},
	Barrage: {name: "barrage", root: Barrage, family: FamilyMagic, animations: []int{
		1979, // ancient multi target
	}},
	SpecialStab: {name: "special_stab", root: Stab, special: true, family: FamilyMelee, animations: []int{
		1062, // dragon dagger
	}},
	SpecialSlash: {name: "special_slash", root: Slash, special: true, family: FamilyMelee, animations: []int{
		1872, // dragon scimitar
		7514, // dragon claws
		7515, // vesta's longsword
		7644, // armadyl godsword
		7645, // armadyl godsword (ornate)
	}},
	SpecialCrush: {name: "special_crush", root: Crush, special: true, family: FamilyMelee, animations: []int{
		1378, // warhammer
		1667, // granite maul
		7511, // statius's warhammer
	}},
	SpecialRange: {name: "special_range", root: Ranged, special: true, family: FamilyRanged, animations: []int{
		1074, // magic shortbow
		7222, // ballista
		7521, // armadyl crossbow
	}},
}

// animationIndex maps every animation id to exactly one style. It is built
// once at package initialisation and never written afterwards.
var animationIndex = buildAnimationIndex()

func buildAnimationIndex() map[int]AttackStyle {
	idx := make(map[int]AttackStyle)
	for s, def := range styleDefs {
		for _, id := range def.animations {
			if prev, exists := idx[id]; exists {
				panic(fmt.Sprintf("combat: animation %d claimed by %s and %s", id, prev, AttackStyle(s)))
			}
			idx[id] = AttackStyle(s)
		}
	}
	return idx
}

func (s AttackStyle) def() styleDef {
	if s < 0 || int(s) >= len(styleDefs) {
		return styleDefs[StyleNone]
	}
	return styleDefs[s]
}

// ClassifyAnimation returns the style of an animation id, or StyleNone.
func ClassifyAnimation(animationID int) AttackStyle {
	if s, ok := animationIndex[animationID]; ok {
		return s
	}
	return StyleNone
}

// Root returns the non-special style used for formula branching.
func (s AttackStyle) Root() AttackStyle { return s.def().root }

// IsSpecial reports whether s is a special-attack style.
func (s AttackStyle) IsSpecial() bool { return s.def().special }

// Family returns the formula family of s.
func (s AttackStyle) Family() Family { return s.def().family }

// Animations returns a copy of the animation ids classified as s.
func (s AttackStyle) Animations() []int {
	ids := s.def().animations
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// String returns the lower-case style name.
func (s AttackStyle) String() string { return s.def().name }

// AllStyles returns every recognised style, excluding StyleNone.
func AllStyles() []AttackStyle {
	out := make([]AttackStyle, 0, len(styleDefs)-1)
	for s := Stab; int(s) < len(styleDefs); s++ {
		out = append(out, s)
	}
	return out
}

// ParseAttackStyle maps a style name (as produced by String) to its AttackStyle.
//
// Postcondition: returns an error for unknown names and for "none".
func ParseAttackStyle(name string) (AttackStyle, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllStyles() {
		if s.String() == n {
			return s, nil
		}
	}
	return StyleNone, fmt.Errorf("unknown attack style %q", name)
}
