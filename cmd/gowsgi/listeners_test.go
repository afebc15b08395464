package main

import (
	"testing"

	"github.com/nabbar/gowsgi/config"
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/fastcgi"
	"github.com/nabbar/gowsgi/protocol/http1"
	"github.com/nabbar/gowsgi/protocol/http2"
)

func testDate() string { return "date" }

func TestBindAllPairsEveryGroup(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPSockets = []string{"127.0.0.1:0"}
	cfg.HTTP2Sockets = []string{"127.0.0.1:0"}
	cfg.FastCGISockets = []string{"127.0.0.1:0"}

	lns, err := bindAll(cfg, testDate)
	if err != nil {
		t.Fatalf("bindAll: %v", err)
	}
	defer closeAll(lns)

	if len(lns) != 3 {
		t.Fatalf("bindAll() returned %d listeners, want 3", len(lns))
	}

	kinds := map[protocol.Kind]int{}
	for _, bl := range lns {
		if bl.ln.Addr() == nil {
			t.Error("bound listener has no local address")
		}
		kinds[bl.proto.Kind()]++
	}

	if _, ok := lns[0].proto.(*http1.Protocol1); !ok {
		t.Errorf("http-socket entry bound to %T, want *http1.Protocol1", lns[0].proto)
	}
	if _, ok := lns[1].proto.(*http2.Protocol2); !ok {
		t.Errorf("http2-socket entry bound to %T, want *http2.Protocol2", lns[1].proto)
	}
	if _, ok := lns[2].proto.(*fastcgi.Protocol1); !ok {
		t.Errorf("fastcgi-socket entry bound to %T, want *fastcgi.Protocol1", lns[2].proto)
	}
}

func TestBindAllEmptyConfig(t *testing.T) {
	cfg := config.Default()
	lns, err := bindAll(cfg, testDate)
	if err != nil {
		t.Fatalf("bindAll: %v", err)
	}
	if len(lns) != 0 {
		t.Errorf("bindAll() with no configured sockets returned %d listeners, want 0", len(lns))
	}
}

func TestBindAllInvalidSpecClosesPriorListeners(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPSockets = []string{"127.0.0.1:0", ""}

	lns, err := bindAll(cfg, testDate)
	if err == nil {
		closeAll(lns)
		t.Fatal("bindAll() with an empty socket spec expected an error, got nil")
	}
}
