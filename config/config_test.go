package config

import "testing"

func TestResolveCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"4", 4, false},
		{"0", 1, false},
		{"-3", 1, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ResolveCount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ResolveCount(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ResolveCount(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ResolveCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResolveCountAuto(t *testing.T) {
	got, err := ResolveCount("auto")
	if err != nil {
		t.Fatalf("ResolveCount(auto): %v", err)
	}
	if got < 1 {
		t.Errorf("ResolveCount(auto) = %d, want >= 1", got)
	}
}

func TestParseSocketSpecPlain(t *testing.T) {
	s, err := ParseSocketSpec("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("ParseSocketSpec: %v", err)
	}
	if s.Address != "127.0.0.1:8080" || s.Cert != "" || s.Key != "" {
		t.Errorf("unexpected spec: %+v", s)
	}
}

func TestParseSocketSpecTLS(t *testing.T) {
	s, err := ParseSocketSpec("0.0.0.0:8443,cert.pem,key.pem")
	if err != nil {
		t.Fatalf("ParseSocketSpec: %v", err)
	}
	if s.Cert != "cert.pem" || s.Key != "key.pem" || s.Alg != "" {
		t.Errorf("unexpected spec: %+v", s)
	}
}

func TestParseSocketSpecTLSWithAlg(t *testing.T) {
	s, err := ParseSocketSpec("0.0.0.0:8443,cert.pem,key.pem,HIGH")
	if err != nil {
		t.Fatalf("ParseSocketSpec: %v", err)
	}
	if s.Alg != "HIGH" {
		t.Errorf("unexpected spec: %+v", s)
	}
}

func TestParseSocketSpecInvalid(t *testing.T) {
	if _, err := ParseSocketSpec("a,b,c,d,e"); err == nil {
		t.Error("expected error for too many fields")
	}
	if _, err := ParseSocketSpec(""); err == nil {
		t.Error("expected error for empty spec")
	}
}

func TestParseChownSpec(t *testing.T) {
	tests := []struct {
		in      string
		wantUid int
		wantGid int
		wantErr bool
	}{
		{"", -1, -1, false},
		{"1000", 1000, -1, false},
		{"1000:1000", 1000, 1000, false},
		{":1000", -1, 1000, false},
	}
	for _, tt := range tests {
		uid, gid, err := ParseChownSpec(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseChownSpec(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseChownSpec(%q): %v", tt.in, err)
		}
		if uid != tt.wantUid || gid != tt.wantGid {
			t.Errorf("ParseChownSpec(%q) = (%d,%d), want (%d,%d)", tt.in, uid, gid, tt.wantUid, tt.wantGid)
		}
	}
}
