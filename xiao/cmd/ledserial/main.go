// Command ledserial drives the XIAO RP2040 RGB LED from ledserial packets sent
// by the rgbwave serial device.
package main

import (
	"machine"
	"time"

	"libdb.so/rgbwave/ledserial"
	"libdb.so/rgbwave/xiao"
)

func main() {
	rgb, err := xiao.NewRGBLED()
	if err != nil {
		for {
			ledserial.WriteOutgoingPacket(WrapSerial(machine.Serial), ledserial.ErrorPacket{
				Message: "failed to set up LED: " + err.Error(),
			})
			time.Sleep(time.Second)
		}
	}

	defer func() {
		if recover() != nil {
			rgb.Off()
			ledserial.WriteOutgoingPacket(WrapSerial(machine.Serial), ledserial.PanicPacket{})
		}
	}()

	NewDevice(machine.Serial, rgb).Run()
}
