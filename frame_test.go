package main

import (
	"errors"
	"testing"
)

func TestFrameEncodeLayout(t *testing.T) {
	f := TouchFrame{Flags: flagSetLine}
	f.Touched[0] = 0x0801
	f.Touched[5] = 0x0003
	data := f.Encode()
	if len(data) != touchFrameLen {
		t.Fatalf("len = %d, want %d", len(data), touchFrameLen)
	}
	if data[0] != SOF0 || data[1] != SOF1 || data[2] != touchPayloadLen+1 || data[3] != CmdTouchState {
		t.Errorf("header = % x", data[:4])
	}
	if data[4] != 0x01 || data[5] != 0x08 || data[14] != 0x03 || data[16] != flagSetLine {
		t.Errorf("payload = % x", data[4:16])
	}
	cks := byte(0)
	for _, b := range data[2 : len(data)-1] {
		cks ^= b
	}
	if data[len(data)-1] != cks {
		t.Errorf("checksum = %#02x, want %#02x", data[len(data)-1], cks)
	}
}

func TestFrameDecoderSplitAndGarbage(t *testing.T) {
	a := TouchFrame{}
	a.Touched[2] = 0x0fff
	b := TouchFrame{Flags: flagSetLine}
	b.Touched[4] = 0x0010

	stream := append([]byte{0x00, 0x13, SOF0}, a.Encode()...)
	stream = append(stream, 0x7f)
	stream = append(stream, b.Encode()...)

	var d FrameDecoder
	var got []TouchFrame
	for i := 0; i < len(stream); i += 5 {
		end := min(i+5, len(stream))
		frames, errs := d.Feed(stream[i:end])
		if len(errs) != 0 {
			t.Fatalf("unexpected errors %v", errs)
		}
		got = append(got, frames...)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("frames = %+v, want %+v %+v", got, a, b)
	}
	if !got[1].SetLine() || got[0].SetLine() {
		t.Error("set line flag not decoded")
	}
}

func TestFrameDecoderBadChecksum(t *testing.T) {
	good := TouchFrame{}
	good.Touched[1] = 0x0002
	bad := good.Encode()
	bad[len(bad)-1] ^= 0xff

	var d FrameDecoder
	frames, errs := d.Feed(append(bad, good.Encode()...))
	if len(errs) != 1 || !errors.Is(errs[0], ErrBadChecksum) {
		t.Fatalf("errs = %v, want one checksum error", errs)
	}
	if len(frames) != 1 || frames[0] != good {
		t.Errorf("frames = %+v", frames)
	}
}

func TestFrameDecoderBadLength(t *testing.T) {
	good := TouchFrame{}
	var d FrameDecoder
	frames, errs := d.Feed(append([]byte{SOF0, SOF1, 0x02, 0x10, 0x00}, good.Encode()...))
	if len(errs) != 1 || !errors.Is(errs[0], ErrFrameLength) {
		t.Fatalf("errs = %v, want one length error", errs)
	}
	if len(frames) != 1 {
		t.Errorf("got %d frames, want 1", len(frames))
	}
}
