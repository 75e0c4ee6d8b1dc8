package wolframalpha

import (
	"strings"
)

// Mode selects how a result is presented
type Mode int

const (
	ModeCompact Mode = iota
	ModeFull
	ModeImage
)

const (
	flagFull  = "--full"
	flagImage = "--image"

	// bytes kept as they are on top of letters, digits and _.-~
	safeQueryChars = "`~!@$^*()[]{}\\|:;\"'<>,."
	upperHex       = "0123456789ABCDEF"
)

// ParseArgs strips a trailing mode flag from $args
func ParseArgs(args []string) ([]string, Mode) {
	if len(args) == 0 {
		return args, ModeCompact
	}

	switch strings.ToLower(args[len(args)-1]) {
	case flagFull:
		return args[:len(args)-1], ModeFull
	case flagImage:
		return args[:len(args)-1], ModeImage
	}
	return args, ModeCompact
}

// MakeSafeQuery joins $args with spaces, lower cases them and percent escapes every byte
// except letters, digits, _.-~ and a fixed set of punctuation
func MakeSafeQuery(args []string) string {
	query := strings.ToLower(strings.Join(args, " "))

	var escaped strings.Builder
	escaped.Grow(len(query))
	for i := 0; i < len(query); i++ {
		b := query[i]
		if isSafeQueryByte(b) {
			escaped.WriteByte(b)
			continue
		}
		escaped.WriteByte('%')
		escaped.WriteByte(upperHex[b>>4])
		escaped.WriteByte(upperHex[b&0x0f])
	}
	return escaped.String()
}

func isSafeQueryByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '_', b == '.', b == '-', b == '~':
		return true
	}
	return strings.IndexByte(safeQueryChars, b) >= 0
}
