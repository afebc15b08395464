package hpack

// Encoder applies the field-representation grammar of RFC 7541 §6 in the
// write direction, maintaining the same dynamic table shape as a peer
// Decoder fed the bytes this type produces.
type Encoder struct {
	dyn *dynamicTable
	// pendingSizeUpdate is set by SetMaxDynamicTableSize; the next
	// EncodeField call emits the update before the field itself, per
	// RFC 7541 §6.3 (size updates must precede the fields they affect).
	pendingSizeUpdate bool
}

func NewEncoder(initialTableSize int) *Encoder {
	return &Encoder{dyn: newDynamicTable(initialTableSize)}
}

// SetMaxDynamicTableSize changes this encoder's own ceiling, mirroring a
// SETTINGS_HEADER_TABLE_SIZE the peer advertised.
func (e *Encoder) SetMaxDynamicTableSize(n int) {
	e.dyn.setCapacity(n)
	e.pendingSizeUpdate = true
}

// EncodeField appends the representation for f to dst. neverIndex forces
// the literal-never-indexed form (for sensitive values such as cookies or
// authorization headers); otherwise an exact indexed match is used when
// available, falling back to literal-with-incremental-indexing so future
// occurrences of the same field compress to a single index byte.
func (e *Encoder) EncodeField(dst []byte, f HeaderField, neverIndex bool) []byte {
	if e.pendingSizeUpdate {
		dst = encodeInteger(dst, dynamicTableSizeUpdateMask, 5, uint64(e.dyn.Capacity()))
		e.pendingSizeUpdate = false
	}

	if neverIndex || f.Sensitive {
		return e.encodeLiteral(dst, f, repLiteralNeverIndexed)
	}

	if idx, ok := staticPairIndex[HeaderField{Name: f.Name, Value: f.Value}]; ok {
		return encodeInteger(dst, 0x80, 7, uint64(idx))
	}
	if idx, match := e.dyn.find(f); match {
		return encodeInteger(dst, 0x80, 7, uint64(idx))
	}

	return e.encodeLiteral(dst, f, repLiteralIncremental)
}

func (e *Encoder) encodeLiteral(dst []byte, f HeaderField, kind repKind) []byte {
	var highBits byte
	var prefixBits int
	switch kind {
	case repLiteralIncremental:
		highBits, prefixBits = 0x40, 6
	case repLiteralNeverIndexed:
		highBits, prefixBits = 0x10, 4
	default:
		highBits, prefixBits = 0x00, 4
	}

	nameIdx := 0
	if idx, ok := staticNameIndex[f.Name]; ok {
		nameIdx = idx
	} else if idx, _ := e.dyn.find(HeaderField{Name: f.Name}); idx != 0 {
		nameIdx = idx
	}

	dst = encodeInteger(dst, highBits, prefixBits, uint64(nameIdx))
	if nameIdx == 0 {
		dst = appendString(dst, f.Name)
	}
	dst = appendString(dst, f.Value)

	if kind == repLiteralIncremental {
		e.dyn.insert(f)
	}
	return dst
}
