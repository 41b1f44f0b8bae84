package main

import (
	"fmt"
	"log"
	"time"

	"github.com/improvwifi/improv"
	"github.com/improvwifi/improv/packet"
	"github.com/improvwifi/improv/presets"
	"go.bug.st/serial"
)

var (
	portName = "/dev/ttyUSB0"
	ssid     = "MyNetwork"
	psk      = "hunter2"
)

func main() {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: 115200})
	if err != nil {
		log.Fatal(err)
	}

	clientConfig := &improv.Config{
		StateHandler:      stateHandler,
		ErrorHandler:      errorHandler,
		ResultHandler:     resultHandler,
		DisconnectHandler: disconnectHandler,
	}

	client := improv.NewClient(port, clientConfig, &presets.DebugLogger{})

	if err := client.Start(); err != nil {
		log.Fatal(err)
	}

	// Ask where the device is in its lifecycle, then hand it credentials.
	if err := client.RequestCurrentState(); err != nil {
		log.Fatal(err)
	}

	time.Sleep(time.Second)

	if err := client.SendWifiSettings(ssid, psk); err != nil {
		log.Fatal(err)
	}

	// Give the device time to connect and report back before shutting down.
	time.Sleep(time.Second * 10)

	if err := client.Close(); err != nil {
		fmt.Printf("Close error: %v\n", err)
	}
}

func stateHandler(s packet.CurrentState) {
	fmt.Println("Device state:", s)
}

func errorHandler(e packet.ErrorState) {
	fmt.Println("Device error:", e)
}

func resultHandler(r packet.RPCResult) {
	for _, v := range r.Values {
		fmt.Printf("Result value: %s\n", v)
	}
}

func disconnectHandler(err error, expected bool) {
	if !expected {
		fmt.Printf("An unexpected disconnect occurred. Error: %v\n", err)
	} else {
		fmt.Println("An expected disconnect occurred. All OK.")
	}
}
