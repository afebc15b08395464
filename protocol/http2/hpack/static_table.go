package hpack

// staticEntries is the fixed table of RFC 7541 Appendix A, indices 1..61.
// Index 0 is never used; staticEntries[0] is a placeholder so that
// staticEntries[i] lines up with the wire index i directly.
var staticEntries = [62]HeaderField{
	{},
	{Name: ":authority"},
	{Name: ":method", Value: "GET"},
	{Name: ":method", Value: "POST"},
	{Name: ":path", Value: "/"},
	{Name: ":path", Value: "/index.html"},
	{Name: ":scheme", Value: "http"},
	{Name: ":scheme", Value: "https"},
	{Name: ":status", Value: "200"},
	{Name: ":status", Value: "204"},
	{Name: ":status", Value: "206"},
	{Name: ":status", Value: "304"},
	{Name: ":status", Value: "400"},
	{Name: ":status", Value: "404"},
	{Name: ":status", Value: "500"},
	{Name: "accept-charset"},
	{Name: "accept-encoding", Value: "gzip, deflate"},
	{Name: "accept-language"},
	{Name: "accept-ranges"},
	{Name: "accept"},
	{Name: "access-control-allow-origin"},
	{Name: "age"},
	{Name: "allow"},
	{Name: "authorization"},
	{Name: "cache-control"},
	{Name: "content-disposition"},
	{Name: "content-encoding"},
	{Name: "content-language"},
	{Name: "content-length"},
	{Name: "content-location"},
	{Name: "content-range"},
	{Name: "content-type"},
	{Name: "cookie"},
	{Name: "date"},
	{Name: "etag"},
	{Name: "expect"},
	{Name: "expires"},
	{Name: "from"},
	{Name: "host"},
	{Name: "if-match"},
	{Name: "if-modified-since"},
	{Name: "if-none-match"},
	{Name: "if-range"},
	{Name: "if-unmodified-since"},
	{Name: "last-modified"},
	{Name: "link"},
	{Name: "location"},
	{Name: "max-forwards"},
	{Name: "proxy-authenticate"},
	{Name: "proxy-authorization"},
	{Name: "range"},
	{Name: "referer"},
	{Name: "refresh"},
	{Name: "retry-after"},
	{Name: "server"},
	{Name: "set-cookie"},
	{Name: "strict-transport-security"},
	{Name: "transfer-encoding"},
	{Name: "user-agent"},
	{Name: "vary"},
	{Name: "via"},
	{Name: "www-authenticate"},
}

// staticNameIndex maps a header name to the lowest static index carrying
// that name, for the literal-with-name-reference encode path.
var staticNameIndex = func() map[string]int {
	m := make(map[string]int, len(staticEntries))
	for i := 1; i < len(staticEntries); i++ {
		name := staticEntries[i].Name
		if _, ok := m[name]; !ok {
			m[name] = i
		}
	}
	return m
}()

// staticPairIndex maps an exact name/value pair to its static index, for
// the fully-indexed encode path.
var staticPairIndex = func() map[HeaderField]int {
	m := make(map[HeaderField]int, len(staticEntries))
	for i := 1; i < len(staticEntries); i++ {
		e := staticEntries[i]
		if e.Name == "" {
			continue
		}
		m[HeaderField{Name: e.Name, Value: e.Value}] = i
	}
	return m
}()

const staticTableLen = 61
