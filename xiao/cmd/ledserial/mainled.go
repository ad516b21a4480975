package main

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// The NeoPixel next to the RGB LED is used as a status light.
var statusLED ws2812.Device
var statusLEDPower = machine.GPIO11
var statusLEDInitialized bool

func initStatusLED() {
	if !statusLEDInitialized {
		statusLEDPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
		statusLEDPower.Low()

		machine.GPIO12.Configure(machine.PinConfig{Mode: machine.PinOutput})
		statusLED = ws2812.New(machine.GPIO12)

		statusLEDInitialized = true
	}
}

// turnOnStatusLED shows a color on the status light. The NeoPixel takes GRB
// byte order.
func turnOnStatusLED(r, g, b uint8) {
	initStatusLED()
	statusLEDPower.High()
	statusLED.WriteByte(g)
	statusLED.WriteByte(r)
	statusLED.WriteByte(b)
}

func turnOffStatusLED() {
	initStatusLED()
	statusLEDPower.Low()
}
