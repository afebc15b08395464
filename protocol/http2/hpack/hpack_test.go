package hpack

import (
	"bytes"
	"testing"
)

// TestHuffmanRoundTrip round-trips the empty string, the strings of the
// RFC 7541 Appendix C.4 request examples, and "/sample/path".
func TestHuffmanRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"www.example.com",
		"no-cache",
		"custom-key",
		"custom-value",
		"/sample/path",
	}
	for _, s := range cases {
		enc := huffmanAppend(nil, s)
		dec, err := huffmanDecode(nil, enc)
		if err != nil {
			t.Fatalf("huffmanDecode(%q): %v", s, err)
		}
		if string(dec) != s {
			t.Fatalf("round trip mismatch: got %q want %q", dec, s)
		}
	}
}

// TestHuffmanKnownVector checks against the literal octets from RFC 7541
// Appendix C.4.1: "www.example.com" encodes to the given 12 bytes.
func TestHuffmanKnownVector(t *testing.T) {
	want := []byte{
		0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0,
		0xab, 0x90, 0xf4, 0xff,
	}
	got := huffmanAppend(nil, "www.example.com")
	if !bytes.Equal(got, want) {
		t.Fatalf("huffmanAppend(www.example.com) = %x, want %x", got, want)
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 10, 30, 31, 127, 128, 1337, 1 << 20, 1 << 40}
	for _, n := range cases {
		buf := encodeInteger(nil, 0, 5, n)
		got, consumed, err := decodeInteger(buf, 5)
		if err != nil {
			t.Fatalf("decodeInteger(%d): %v", n, err)
		}
		if got != n || consumed != len(buf) {
			t.Fatalf("round trip mismatch for %d: got %d consumed %d/%d", n, got, consumed, len(buf))
		}
	}
}

// TestIntegerKnownVector checks against RFC 7541 Appendix C.1.1: 10
// encoded with a 5-bit prefix is a single byte 0b01010 (0x0a).
func TestIntegerKnownVector(t *testing.T) {
	got := encodeInteger(nil, 0, 5, 10)
	if !bytes.Equal(got, []byte{0x0a}) {
		t.Fatalf("encodeInteger(10, 5) = %x, want 0a", got)
	}
	// RFC 7541 Appendix C.1.3: 1337 with a 5-bit prefix is 3 octets.
	got = encodeInteger(nil, 0, 5, 1337)
	want := []byte{0x1f, 0x9a, 0x0a}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeInteger(1337, 5) = %x, want %x", got, want)
	}
}

func TestStaticTableLookup(t *testing.T) {
	if staticEntries[2].Name != ":method" || staticEntries[2].Value != "GET" {
		t.Fatalf("static index 2 = %+v, want :method GET", staticEntries[2])
	}
	if idx, ok := staticPairIndex[HeaderField{Name: ":status", Value: "200"}]; !ok || idx != 8 {
		t.Fatalf("staticPairIndex[:status 200] = %d,%v want 8,true", idx, ok)
	}
	if idx, ok := staticNameIndex["content-type"]; !ok || idx != 31 {
		t.Fatalf("staticNameIndex[content-type] = %d,%v want 31,true", idx, ok)
	}
}

func TestDynamicTableEviction(t *testing.T) {
	dt := newDynamicTable(64)
	dt.insert(HeaderField{Name: "a", Value: "1"}) // size 32+1+1=34
	if dt.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", dt.Len())
	}
	dt.insert(HeaderField{Name: "b", Value: "2"}) // would be 68 > 64, evicts oldest
	if dt.Len() != 1 {
		t.Fatalf("after eviction Len() = %d, want 1", dt.Len())
	}
	f, ok := dt.at(62)
	if !ok || f.Name != "b" {
		t.Fatalf("at(62) = %+v,%v want b,true", f, ok)
	}
}

// TestEncodeDecodeRoundTrip exercises the Encoder/Decoder pair across a
// realistic request header set, confirming both sides keep their dynamic
// tables in lockstep (RFC 7541's whole point).
func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder(4096)
	dec := NewDecoder(4096)

	reqs := [][]HeaderField{
		{
			{Name: ":method", Value: "GET"},
			{Name: ":path", Value: "/"},
			{Name: ":scheme", Value: "https"},
			{Name: "user-agent", Value: "gowsgi-test/1.0"},
		},
		{
			{Name: ":method", Value: "GET"},
			{Name: ":path", Value: "/other"},
			{Name: ":scheme", Value: "https"},
			{Name: "user-agent", Value: "gowsgi-test/1.0"},
		},
	}

	for i, fields := range reqs {
		var block []byte
		for _, f := range fields {
			block = enc.EncodeField(block, f, false)
		}
		got, err := dec.DecodeFull(block)
		if err != nil {
			t.Fatalf("request %d: DecodeFull: %v", i, err)
		}
		if len(got) != len(fields) {
			t.Fatalf("request %d: got %d fields, want %d", i, len(got), len(fields))
		}
		for j := range fields {
			if got[j] != fields[j] {
				t.Fatalf("request %d field %d: got %+v, want %+v", i, j, got[j], fields[j])
			}
		}
	}
}

func TestNeverIndexedNotReused(t *testing.T) {
	enc := NewEncoder(4096)
	f := HeaderField{Name: "authorization", Value: "secret", Sensitive: true}
	first := enc.EncodeField(nil, f, false)
	second := enc.EncodeField(nil, f, false)
	if !bytes.Equal(first, second) {
		t.Fatalf("sensitive field should not compress to an index on reuse: %x vs %x", first, second)
	}
	if first[0]&0xf0 != 0x10 {
		t.Fatalf("sensitive field first byte = %x, want literal-never-indexed pattern", first[0])
	}
}
