package model

// TagMode selects how ReplayGain tags are handled for each scanned file.
type TagMode int

const (
	// TagSkip leaves tags untouched. This is the default.
	TagSkip TagMode = iota

	// TagCheck only reports loudness; tags are untouched.
	TagCheck

	// TagDelete removes ReplayGain tags.
	TagDelete

	// TagWrite replaces ReplayGain tags with freshly computed values.
	TagWrite

	// TagApeUnsupported requests APEv2 tags, which are never written.
	TagApeUnsupported

	// TagVorbisCommentUnsupported requests Vorbis Comment tags through the
	// dedicated mode, which always reports unsupported.
	TagVorbisCommentUnsupported

	// TagForceRecalculate ignores cached measurements; tags are untouched.
	TagForceRecalculate

	// TagInvalid is any unrecognized mode character.
	TagInvalid
)

var tagModeChars = map[byte]TagMode{
	'c': TagCheck,
	'd': TagDelete,
	'i': TagWrite,
	'a': TagApeUnsupported,
	'v': TagVorbisCommentUnsupported,
	's': TagSkip,
	'r': TagForceRecalculate,
}

// ParseTagMode parses a --tag-mode argument.
//
// Only the first character is significant, so "i" and "id3" both select
// TagWrite. An empty or unrecognized value yields TagInvalid.
func ParseTagMode(s string) TagMode {
	if s == "" {
		return TagInvalid
	}
	if mode, ok := tagModeChars[s[0]]; ok {
		return mode
	}
	return TagInvalid
}

// Char returns the command-line character for the mode, or '?' for TagInvalid.
func (m TagMode) Char() byte {
	for c, mode := range tagModeChars {
		if mode == m {
			return c
		}
	}
	return '?'
}

// String returns a readable name for the mode.
func (m TagMode) String() string {
	switch m {
	case TagSkip:
		return "skip"
	case TagCheck:
		return "check"
	case TagDelete:
		return "delete"
	case TagWrite:
		return "write"
	case TagApeUnsupported:
		return "ape"
	case TagVorbisCommentUnsupported:
		return "vorbis-comment"
	case TagForceRecalculate:
		return "recalculate"
	default:
		return "invalid"
	}
}
