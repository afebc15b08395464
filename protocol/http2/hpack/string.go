package hpack

// huffmanFlagMask is the high bit of a string-length prefix octet (RFC
// 7541 §5.2), indicating the string bytes that follow are Huffman-coded.
const huffmanFlagMask = 0x80

// decodeString reads one string literal starting at buf[0]: a 7-bit
// prefix integer length (with an H bit above it) followed by that many
// raw or Huffman-coded octets. It returns the decoded value and the
// number of input bytes consumed.
func decodeString(buf []byte) (s string, consumed int, err error) {
	if len(buf) == 0 {
		return "", 0, ErrTruncated
	}
	huff := buf[0]&huffmanFlagMask != 0
	length, n, err := decodeInteger(buf, 7)
	if err != nil {
		return "", 0, err
	}
	if uint64(len(buf)-n) < length {
		return "", 0, ErrTruncated
	}
	raw := buf[n : n+int(length)]
	if !huff {
		return string(raw), n + int(length), nil
	}
	dec, derr := huffmanDecode(nil, raw)
	if derr != nil {
		return "", 0, derr
	}
	return string(dec), n + int(length), nil
}

// appendString encodes s as a string literal. It uses Huffman
// coding only when it is strictly shorter than the raw representation, matching
// common encoder practice; callers needing guaranteed non-Huffman output
// (none in this codebase) would need a separate path.
func appendString(dst []byte, s string) []byte {
	hlen := huffmanEncodedLen(s)
	if hlen < len(s) {
		dst = encodeInteger(dst, huffmanFlagMask, 7, uint64(hlen))
		return huffmanAppend(dst, s)
	}
	dst = encodeInteger(dst, 0, 7, uint64(len(s)))
	return append(dst, s...)
}
