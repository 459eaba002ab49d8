package diaglines

// types.go — shared domain types for diagnostics and editor positions.

// Position is a zero-based (line, character) position in a buffer.
type Position struct {
	Line      int `msgpack:"line" json:"line"`
	Character int `msgpack:"character" json:"character"`
}

// Range delimits a diagnostic's span, start and end inclusive of the lines
// they sit on.
type Range struct {
	Start Position `msgpack:"start" json:"start"`
	End   Position `msgpack:"end" json:"end"`
}

// Severity follows the editor's 1..4 convention (error, warn, info, hint).
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
	SeverityHint    Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is one issue reported by a language tool, attached to a range
// in a buffer. Lnum and Col are the denormalized copy of the range start;
// the renderer consumes those and performs no range interpretation itself,
// so Normalize must run before any diagnostic is forwarded.
type Diagnostic struct {
	Range    Range    `msgpack:"range" json:"range"`
	Severity Severity `msgpack:"severity" json:"severity"`
	Message  string   `msgpack:"message" json:"message"`
	Source   string   `msgpack:"source" json:"source"`

	Lnum int `msgpack:"lnum" json:"lnum"`
	Col  int `msgpack:"col" json:"col"`
}
