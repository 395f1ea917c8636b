package selection

// Direction is the persisted layout direction preference.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// ParseDirection returns ok=false for anything but "ltr"/"rtl".
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionLTR, DirectionRTL:
		return Direction(s), true
	default:
		return DirectionLTR, false
	}
}

func (d Direction) Toggle() Direction {
	if d == DirectionRTL {
		return DirectionLTR
	}
	return DirectionRTL
}

// Lang is the document language paired with the direction.
func (d Direction) Lang() string {
	if d == DirectionRTL {
		return "ar"
	}
	return "en"
}
