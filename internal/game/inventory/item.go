package inventory

// ItemOffset is the encoding threshold for equipment slot values. A value
// above it denotes the item at value - ItemOffset. Values in 1..ItemOffset
// are appearance kit parts and values <= 0 are empty slots; neither is an item.
const ItemOffset = 512

// WeaponSlot is the index of the weapon in an equipment id array.
const WeaponSlot = 3

// DecodeSlot returns the canonical item id encoded by an equipment slot value.
//
// Postcondition: ok is false iff value <= ItemOffset.
func DecodeSlot(value int) (id int, ok bool) {
	if value <= ItemOffset {
		return 0, false
	}
	return value - ItemOffset, true
}

// WeaponID returns the canonical weapon id from an equipment array, or 0
// when the array has no weapon slot or the slot holds no item.
func WeaponID(equipment []int) int {
	if len(equipment) <= WeaponSlot {
		return 0
	}
	id, _ := DecodeSlot(equipment[WeaponSlot])
	return id
}
