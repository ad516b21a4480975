package sequence

import "libdb.so/rgbwave/led"

// Reference is the stock light table of the RGB wave modules. It runs for
// 366,000 ticks per pass: about 3m21s at the measured 550µs tick, or 2m26s
// at the nominal 400µs tick.
var Reference = MustNew(referenceFrames...)

var referenceFrames = []Keyframe{
	{Fade: 0, Hold: 500, Color: led.Black},
	{Fade: 500, Hold: 500, Color: led.RGB(255, 0, 0)},
	{Fade: 500, Hold: 500, Color: led.RGB(0, 255, 0)},
	{Fade: 500, Hold: 500, Color: led.RGB(0, 0, 255)},
	{Fade: 500, Hold: 500, Color: led.RGB(0, 255, 255)},
	{Fade: 500, Hold: 500, Color: led.RGB(255, 0, 255)},
	{Fade: 500, Hold: 500, Color: led.RGB(255, 255, 0)},
	{Fade: 500, Hold: 2500, Color: led.RGB(255, 255, 255)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(255, 0, 0)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(0, 255, 0)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(0, 0, 255)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(155, 64, 0)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(64, 255, 64)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(0, 64, 255)},
	{Fade: 7000, Hold: 2500, Color: led.RGB(64, 0, 64)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(155, 0, 0)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(0, 255, 0)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(0, 0, 255)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(140, 0, 240)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(155, 155, 0)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(155, 255, 255)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(128, 128, 128)},
	{Fade: 7000, Hold: 1500, Color: led.RGB(48, 48, 58)},
	{Fade: 7000, Hold: 1500, Color: led.Black},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 0, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 255, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 255, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 255, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 0, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 0, 255)},
	{Fade: 2500, Hold: 0, Color: led.Black},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 0, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 255, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 255, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 255, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 0, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(155, 0, 255)},
	{Fade: 2500, Hold: 0, Color: led.Black},
	{Fade: 2500, Hold: 2500, Color: led.RGB(154, 32, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(154, 128, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(154, 240, 0)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(128, 240, 0)},
	{Fade: 0, Hold: 2500, Color: led.Black},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 16, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 128, 255)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(0, 240, 128)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(16, 16, 240)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(140, 16, 240)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(64, 0, 250)},
	{Fade: 0, Hold: 2500, Color: led.RGB(10, 10, 10)},
	{Fade: 0, Hold: 2500, Color: led.Black},
	{Fade: 2500, Hold: 2500, Color: led.RGB(140, 0, 240)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(32, 0, 240)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(128, 0, 128)},
	{Fade: 2500, Hold: 2500, Color: led.RGB(140, 0, 32)},
	{Fade: 2500, Hold: 0, Color: led.RGB(0, 0, 10)},
	{Fade: 2500, Hold: 0, Color: led.Black},
	{Fade: 1000, Hold: 1000, Color: led.Black},
	{Fade: 1000, Hold: 1000, Color: led.RGB(32, 0, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(64, 0, 0)},
	{Fade: 0, Hold: 1000, Color: led.RGB(96, 0, 0)},
	{Fade: 1000, Hold: 0, Color: led.RGB(128, 0, 0)},
	{Fade: 1000, Hold: 0, Color: led.RGB(160, 32, 0)},
	{Fade: 1000, Hold: 0, Color: led.RGB(192, 64, 0)},
	{Fade: 1000, Hold: 0, Color: led.RGB(124, 96, 0)},
	{Fade: 0, Hold: 1000, Color: led.RGB(155, 128, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 160, 0)},
	{Fade: 0, Hold: 1000, Color: led.RGB(0, 192, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 224, 32)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 255, 64)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 0, 96)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 0, 128)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 0, 160)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 0, 192)},
	{Fade: 1000, Hold: 0, Color: led.RGB(0, 0, 224)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 0, 255)},
	{Fade: 1000, Hold: 0, Color: led.Black},
	{Fade: 0, Hold: 1000, Color: led.RGB(0, 0, 255)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(32, 0, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(96, 0, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(160, 0, 0)},
	{Fade: 1000, Hold: 0, Color: led.RGB(255, 0, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 96, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 160, 32)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 224, 64)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 255, 96)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 0, 128)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 0, 160)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 32, 192)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 64, 224)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 96, 225)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 128, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 160, 0)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 192, 32)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 224, 64)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 255, 96)},
	{Fade: 1000, Hold: 1000, Color: led.RGB(0, 0, 255)},
	{Fade: 1000, Hold: 1000, Color: led.Black},
	{}, // sentinel
}
