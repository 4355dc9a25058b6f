package buffer

// Source identifies who requested a mutation.
type Source uint8

const (
	SourceUser Source = iota
	SourceAPI
	// SourceSilent mutations emit no events.
	SourceSilent
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceAPI:
		return "api"
	case SourceSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// Range is a selection span: [Index, Index+Length).
type Range struct {
	Index  int
	Length int
}

// End returns the exclusive end offset.
func (r Range) End() int { return r.Index + r.Length }

func (r Range) IsCollapsed() bool { return r.Length == 0 }

// Pos is a (row, col) position in runes. Row and Col are 0-based.
type Pos struct {
	Row int
	Col int
}

func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

// Rect locates an offset on screen in logical rows and rune columns.
type Rect struct {
	Row int
	Col int
}

type Options struct {
	HistoryLimit int // default: 1000
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPos clamps p into document bounds described by rowCount and lineLen.
//
// The returned Pos always satisfies:
// - 0 <= Row < rowCount (with rowCount treated as at least 1)
// - 0 <= Col <= lineLen(Row)
func ClampPos(p Pos, rowCount int, lineLen func(row int) int) Pos {
	if rowCount <= 0 {
		rowCount = 1
	}
	row := clampInt(p.Row, 0, rowCount-1)

	maxCol := 0
	if lineLen != nil {
		maxCol = max(lineLen(row), 0)
	}
	return Pos{Row: row, Col: clampInt(p.Col, 0, maxCol)}
}
