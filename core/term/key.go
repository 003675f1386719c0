package term

// Kind tags the closed set of input events a Terminal can decode. Every
// switch over Kind in this codebase is exhaustive — there is no open-ended
// event type here, see spec.md §9 "Polymorphism surfaces".
type Kind int

const (
	KindChar Kind = iota
	KindEnter
	KindBackspace
	KindDelete
	KindTab
	KindArrowUp
	KindArrowDown
	KindArrowLeft
	KindArrowRight
	KindHome
	KindEnd
	KindCtrlC
	KindCtrlD
	KindUnknown
)

// Key is a single decoded input event. Char is only meaningful when Kind
// is KindChar; bytes with the high bit set (non-ASCII UTF-8 continuation
// and lead bytes) are surfaced as KindChar verbatim, undecoded.
type Key struct {
	Kind Kind
	Char byte
}

func (k Key) String() string {
	switch k.Kind {
	case KindChar:
		return string(k.Char)
	case KindEnter:
		return "Enter"
	case KindBackspace:
		return "Backspace"
	case KindDelete:
		return "Delete"
	case KindTab:
		return "Tab"
	case KindArrowUp:
		return "ArrowUp"
	case KindArrowDown:
		return "ArrowDown"
	case KindArrowLeft:
		return "ArrowLeft"
	case KindArrowRight:
		return "ArrowRight"
	case KindHome:
		return "Home"
	case KindEnd:
		return "End"
	case KindCtrlC:
		return "CtrlC"
	case KindCtrlD:
		return "CtrlD"
	default:
		return "Unknown"
	}
}
