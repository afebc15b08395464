package websocket

// utf8Validator incrementally validates a UTF-8 byte stream across
// multiple writes, so a text message's validity can be checked as its
// fragments arrive rather than only once fully reassembled (spec.md
// §4.5). It tracks how many continuation bytes the current sequence
// still needs and the valid range for the next one, which is enough to
// reject overlong encodings, surrogate halves, and codepoints above
// U+10FFFF without buffering the whole rune.
type utf8Validator struct {
	need    int // continuation bytes still expected in the current sequence
	lo, hi  byte
	invalid bool
}

// step feeds one byte through the validator. It returns false the
// instant the stream becomes invalid UTF-8.
func (v *utf8Validator) step(b byte) bool {
	if v.invalid {
		return false
	}

	if v.need == 0 {
		switch {
		case b <= 0x7f:
			// ASCII.
		case b >= 0xc2 && b <= 0xdf:
			v.need, v.lo, v.hi = 1, 0x80, 0xbf
		case b == 0xe0:
			v.need, v.lo, v.hi = 2, 0xa0, 0xbf
		case b >= 0xe1 && b <= 0xec:
			v.need, v.lo, v.hi = 2, 0x80, 0xbf
		case b == 0xed:
			v.need, v.lo, v.hi = 2, 0x80, 0x9f // excludes the surrogate range
		case b >= 0xee && b <= 0xef:
			v.need, v.lo, v.hi = 2, 0x80, 0xbf
		case b == 0xf0:
			v.need, v.lo, v.hi = 3, 0x90, 0xbf
		case b >= 0xf1 && b <= 0xf3:
			v.need, v.lo, v.hi = 3, 0x80, 0xbf
		case b == 0xf4:
			v.need, v.lo, v.hi = 3, 0x80, 0x8f // excludes codepoints above U+10FFFF
		default:
			v.invalid = true
		}
		return !v.invalid
	}

	if b < v.lo || b > v.hi {
		v.invalid = true
		return false
	}
	v.need--
	v.lo, v.hi = 0x80, 0xbf // the constrained range only applies to the byte right after the lead byte
	return true
}

// write validates data against the running state, returning false the
// moment an invalid byte sequence is seen.
func (v *utf8Validator) write(data []byte) bool {
	for _, b := range data {
		if !v.step(b) {
			return false
		}
	}
	return true
}

// complete reports whether the stream seen so far ends on a codepoint
// boundary, i.e. it did not stop mid-sequence.
func (v *utf8Validator) complete() bool {
	return !v.invalid && v.need == 0
}
