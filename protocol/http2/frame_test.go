package http2

import "testing"

func TestFrameHeaderRoundTrip(t *testing.T) {
	buf := appendFrameHeader(nil, 1234, FrameHeaders, FlagEndHeaders|FlagEndStream, 17)
	if len(buf) != frameHeaderLen {
		t.Fatalf("len(buf) = %d, want %d", len(buf), frameHeaderLen)
	}
	hdr := parseFrameHeader(buf)
	if hdr.Length != 1234 || hdr.Type != FrameHeaders || hdr.Flags != FlagEndHeaders|FlagEndStream || hdr.StreamID != 17 {
		t.Fatalf("parseFrameHeader = %+v", hdr)
	}
}

func TestFrameHeaderReservedBitCleared(t *testing.T) {
	buf := appendFrameHeader(nil, 0, FrameData, 0, 1)
	buf[5] |= 0x80 // set the reserved bit directly on the wire bytes
	hdr := parseFrameHeader(buf)
	if hdr.StreamID != 1 {
		t.Fatalf("StreamID = %d, want 1 (reserved bit must be masked off)", hdr.StreamID)
	}
}

func TestMaxFrameSizeForClampsToFloor(t *testing.T) {
	if got := maxFrameSizeFor(100); got != 16384 {
		t.Fatalf("maxFrameSizeFor(100) = %d, want 16384 floor", got)
	}
}

func TestSettingsPayloadRoundTrip(t *testing.T) {
	s := DefaultSettings(16393)
	buf := appendSettingsPayload(nil, s)
	if len(buf)%6 != 0 {
		t.Fatalf("settings payload length %d not a multiple of 6", len(buf))
	}
	got := Settings{}
	parseSettingsPayload(buf, func(id SettingID, value uint32) {
		switch id {
		case SettingHeaderTableSize:
			got.HeaderTableSize = value
		case SettingEnablePush:
			got.EnablePush = value != 0
		case SettingMaxConcurrentStreams:
			got.MaxConcurrentStreams = value
		case SettingInitialWindowSize:
			got.InitialWindowSize = value
		case SettingMaxFrameSize:
			got.MaxFrameSize = value
		case SettingMaxHeaderListSize:
			got.MaxHeaderListSize = value
		}
	})
	if got != s {
		t.Fatalf("settings round trip: got %+v want %+v", got, s)
	}
}

func TestFlowWindowOverflowRejected(t *testing.T) {
	w := newFlowWindow(defaultWindowSize)
	if err := w.increase(maxWindowSize); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestFlowWindowNegativeAfterSettingsShrink(t *testing.T) {
	w := newFlowWindow(65535)
	w.consume(60000)
	w.shiftInitial(-50000) // SETTINGS_INITIAL_WINDOW_SIZE decreased
	if w.available() != 0 {
		t.Fatalf("available() = %d, want 0 (negative windows clamp to 0 available)", w.available())
	}
	if w.size >= 0 {
		t.Fatalf("size = %d, want negative to record the true deficit", w.size)
	}
}
