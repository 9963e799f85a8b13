package main

import (
	"context"
	"time"

	"github.com/chase3718/ts10/engine"
)

type ticker interface {
	Tick()
}

// Controller runs the poll loop. Everything the engine touches is driven
// from the goroutine calling Run, one step at a time.
type Controller struct {
	engine  *engine.Engine
	sensors *SensorBridge
	hotplug ticker
	bridge  *Bridge
	panel   *LEDPanel
}

// Step runs one iteration: device upkeep, MIDI pass-through, then every
// sensor frame received since the last step. Each frame applies the Set
// line before its touch edges.
func (c *Controller) Step() {
	if c.hotplug != nil {
		c.hotplug.Tick()
	}
	c.bridge.Pump()
	for _, scan := range c.sensors.Poll() {
		c.engine.SetControl(scan.SetLine)
		for _, ev := range scan.Events {
			c.engine.HandleTouch(ev)
		}
	}
	if c.panel != nil {
		c.panel.Flush()
	}
}

// Run steps every interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Step()
		}
	}
}
