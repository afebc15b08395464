package main

import (
	"strings"
	"testing"
)

func TestAppVersionMetadata(t *testing.T) {
	v := appVersion()

	if got := v.GetPrefix(); got != "GOWSGI" {
		t.Errorf("GetPrefix() = %q, want GOWSGI", got)
	}
	if got := v.GetRelease(); got != buildRelease {
		t.Errorf("GetRelease() = %q, want %q", got, buildRelease)
	}
	if !strings.Contains(v.GetAuthor(), "nabbar") {
		t.Errorf("GetAuthor() = %q, want it to mention the author", v.GetAuthor())
	}
	if id := v.GetAppId(); id == "" {
		t.Error("GetAppId() returned an empty string")
	}
}

func TestAppVersionCheckGo(t *testing.T) {
	v := appVersion()
	if err := v.CheckGo("1.0", ">="); err != nil {
		t.Errorf("CheckGo(1.0, >=) unexpected error: %v", err)
	}
}
