package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // key went down
	Release             // key went up
	Hold                // key still down, sent once per frame
)

func (t Type) String() string {
	switch t {
	case Press:
		return "press"
	case Release:
		return "release"
	case Hold:
		return "hold"
	}
	return "unknown"
}
