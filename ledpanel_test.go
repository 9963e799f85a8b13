package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chase3718/ts10/engine"
)

func TestLEDPanelFlushOnlyOnChange(t *testing.T) {
	var out bytes.Buffer
	p := NewLEDPanel(&out)
	p.Flush()
	if out.Len() != 0 {
		t.Fatalf("flushed %q with nothing set", out.String())
	}

	p.SetPixel(2, engine.Wheel(100))
	p.SetPixel(9, engine.Wheel(0)) // no such indicator
	p.Flush()
	first := out.String()
	for _, label := range []string{"1", "2", "3", "4"} {
		if !strings.Contains(first, label) {
			t.Errorf("render %q lacks indicator %s", first, label)
		}
	}

	p.SetPixel(2, engine.Wheel(100))
	p.Flush()
	if out.String() != first {
		t.Error("flushed again without a change")
	}
}

func TestToColorful(t *testing.T) {
	if got := toColorful(engine.RGB{255, 0, 0}).Hex(); got != "#ff0000" {
		t.Errorf("hex = %s", got)
	}
	if got := toColorful(engine.RGB{}).Hex(); got != "#000000" {
		t.Errorf("hex = %s", got)
	}
}
