package kiosk

// Key names accepted by the keypad besides the digits.
const (
	KeyBack  = "back"
	KeyClear = "clear"
	KeyEnter = "enter"
)

// keyAliases maps physical keyboard names onto keypad keys.
var keyAliases = map[string]string{
	"Backspace": KeyBack,
	"Escape":    KeyClear,
	"Enter":     KeyEnter,
	"F8":        KeyEnter,
}

// Keypad is the digit buffer behind the on-screen numeric keypad.
type Keypad struct {
	digits string
}

// NewKeypad restores a buffer from a form value, keeping at most four digits.
func NewKeypad(buffer string) Keypad {
	var k Keypad
	for _, r := range buffer {
		k = k.Press(r)
	}
	return k
}

// Press appends a digit. Non-digits and presses past four digits are ignored.
// POST: len(Value()) <= SuffixLength
func (k Keypad) Press(r rune) Keypad {
	if r < '0' || r > '9' || len(k.digits) >= SuffixLength {
		return k
	}
	return Keypad{digits: k.digits + string(r)}
}

// Back removes the last digit.
func (k Keypad) Back() Keypad {
	if k.digits == "" {
		return k
	}
	return Keypad{digits: k.digits[:len(k.digits)-1]}
}

// Clear empties the buffer.
func (k Keypad) Clear() Keypad {
	return Keypad{}
}

// Value returns the typed digits.
func (k Keypad) Value() string {
	return k.digits
}

// Complete reports whether four digits have been typed.
func (k Keypad) Complete() bool {
	return len(k.digits) == SuffixLength
}

// Slots returns the display slots, "" for untyped positions.
func (k Keypad) Slots() []string {
	out := make([]string, SuffixLength)
	for i := 0; i < len(k.digits); i++ {
		out[i] = k.digits[i : i+1]
	}
	return out
}

// Apply handles one key and reports whether it requests submission.
// Unknown keys leave the buffer unchanged.
func (k Keypad) Apply(key string) (Keypad, bool) {
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	switch key {
	case KeyBack:
		return k.Back(), false
	case KeyClear:
		return k.Clear(), false
	case KeyEnter:
		return k, true
	}
	if len(key) == 1 {
		return k.Press(rune(key[0])), false
	}
	return k, false
}
