package terminal

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// KeyCtrl is Ctrl+letter; Event.Rune carries the lowercase letter
	KeyCtrl
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// csiKeys maps the body of a CSI sequence (after ESC [) to a key
var csiKeys = map[string]Key{
	"A":  KeyUp,
	"B":  KeyDown,
	"C":  KeyRight,
	"D":  KeyLeft,
	"H":  KeyHome,
	"F":  KeyEnd,
	"Z":  KeyBacktab,
	"1~": KeyHome,
	"2~": KeyInsert,
	"3~": KeyDelete,
	"4~": KeyEnd,
	"5~": KeyPageUp,
	"6~": KeyPageDown,
	"7~": KeyHome,
	"8~": KeyEnd,
}

// csiModifiers decodes the xterm modifier parameter (ESC [ 1 ; N X)
var csiModifiers = map[byte]Modifier{
	'2': ModShift,
	'3': ModAlt,
	'4': ModShift | ModAlt,
	'5': ModCtrl,
	'6': ModCtrl | ModShift,
	'7': ModCtrl | ModAlt,
	'8': ModCtrl | ModShift | ModAlt,
}

// lookupCSI resolves a CSI body such as "A", "3~" or "1;5C"
func lookupCSI(body []byte) (Key, Modifier, bool) {
	if k, ok := csiKeys[string(body)]; ok {
		return k, ModNone, true
	}
	// 1;<mod><final>
	if len(body) == 4 && body[0] == '1' && body[1] == ';' {
		mod, ok := csiModifiers[body[2]]
		if !ok {
			return KeyNone, ModNone, false
		}
		if k, ok := csiKeys[string(body[3:])]; ok {
			return k, mod, true
		}
	}
	return KeyNone, ModNone, false
}

// ss3Keys maps SS3 finals (ESC O X) sent by some terminals in application cursor mode
var ss3Keys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}
