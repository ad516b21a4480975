// Command rgbwave plays the reference light table on the XIAO RP2040 RGB LED
// without a host.
package main

import (
	"context"
	"time"

	"libdb.so/rgbwave/clock"
	"libdb.so/rgbwave/playback"
	"libdb.so/rgbwave/sequence"
	"libdb.so/rgbwave/xiao"
)

const (
	passes = 360
	settle = 100 * time.Millisecond
)

func main() {
	rgb, err := xiao.NewRGBLED()
	if err != nil {
		println("failed to set up LED:", err.Error())
		park()
	}

	delay := clock.NewSleeper(clock.MeasuredTick)
	player := playback.NewPlayer(sequence.Reference, rgb, delay, playback.Hooks{
		OnPass: func(ticks int) { println("pass complete, ticks:", ticks) },
	})

	ctx := context.Background()
	for pass := 0; pass < passes; pass++ {
		if err := player.RunPass(ctx); err != nil {
			println("playback stopped:", err.Error())
			break
		}
	}

	time.Sleep(settle)
	rgb.Off()
	park()
}

func park() {
	for {
		time.Sleep(time.Hour)
	}
}
