package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xlab/closer"

	"github.com/chase3718/ts10/engine"
)

// -------------------- Logger --------------------

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	logger = slog.New(h)
	slog.SetDefault(logger) // stdlib log.* now routes through slog
}

// -------------------- Tunables --------------------

const (
	// SERIAL_READ_TIMEOUT bounds every serial read so the loop never stalls.
	SERIAL_READ_TIMEOUT = time.Millisecond
	POLL_INTERVAL       = 2 * time.Millisecond
	SENSOR_BAUD         = 115200
)

// -------------------- Main --------------------

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	sensorDev := flag.String("sensors", "/dev/ttyACM0", "sensor bridge serial device")
	sensorBaud := flag.Int("sensors-baud", SENSOR_BAUD, "sensor bridge baud rate")
	dinDev := flag.String("din", "", "DIN MIDI serial device (empty disables)")
	usbPatterns := flag.String("usb", "", "comma-separated USB MIDI port name patterns, tried in order")
	leds := flag.Bool("leds", false, "mirror the indicators on stdout")
	poll := flag.Duration("poll", POLL_INTERVAL, "poll loop interval")
	flag.Parse()

	initLogger(*debug)
	logger.Info("ts10 starting",
		"sensors", *sensorDev,
		"sensors_baud", *sensorBaud,
		"din", *dinDev,
		"usb", *usbPatterns,
		"poll", *poll,
		"debug", *debug,
	)

	sensorPort, err := OpenSerial(*sensorDev, *sensorBaud, SERIAL_READ_TIMEOUT)
	if err != nil {
		logger.Error("sensor bridge unavailable", "err", err)
		os.Exit(1)
	}

	usb, err := NewUSBPort(splitPatterns(*usbPatterns))
	if err != nil {
		logger.Error("midi watcher init failed", "err", err)
		_ = sensorPort.Close()
		os.Exit(1)
	}

	var (
		din     Port = nullPort{}
		dinPort *SerialPort
	)
	if *dinDev != "" {
		dinPort, err = OpenSerial(*dinDev, DINBaud, SERIAL_READ_TIMEOUT)
		if err != nil {
			logger.Error("din port unavailable", "err", err)
			usb.Close()
			_ = sensorPort.Close()
			os.Exit(1)
		}
		din = NewDINPort(dinPort)
	}

	var (
		lights engine.Lights
		panel  *LEDPanel
	)
	if *leds {
		panel = NewLEDPanel(os.Stdout)
		lights = panel
	}

	eng := engine.New(engine.NewState(), []engine.Sender{usb, din}, lights, logger)
	c := &Controller{
		engine:  eng,
		sensors: NewSensorBridge(sensorPort),
		hotplug: usb,
		bridge:  NewBridge(usb, din),
		panel:   panel,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, *poll)
	}()

	// Stop the loop first: the engine may only be touched by one goroutine.
	// Then silence what is sounding and close the ports it went out on.
	closer.Bind(func() {
		cancel()
		<-done
		eng.Panic()
		usb.Close()
		if dinPort != nil {
			_ = dinPort.Close()
		}
		_ = sensorPort.Close()
		logger.Info("ts10 stopped")
	})

	logger.Info("running – waiting for touch")
	closer.Hold()
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
