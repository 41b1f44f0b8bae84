package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/improvwifi/improv"
	"github.com/improvwifi/improv/packet"
	"github.com/improvwifi/improv/presets"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.bug.st/serial"
)

func main() {
	app := &cli.App{
		Name:      "improvctl",
		Usage:     "provision an Improv device over a serial link",
		ArgsUsage: "<ssid> <psk>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "serial port device, e.g. /dev/ttyUSB0",
			},
			&cli.IntFlag{
				Name:    "baud",
				Aliases: []string{"b"},
				Value:   115200,
				Usage:   "serial baud rate",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file with port/baud/ssid/psk",
			},
			&cli.BoolFlag{
				Name:  "wake",
				Usage: "write a trailing wake byte after each frame",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log protocol chatter",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "improvctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := defaultConfig()

	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = loadConfig(path); err != nil {
			return err
		}
	}

	// Flags and positional args win over the config file.
	if ctx.IsSet("port") {
		cfg.Port = ctx.String("port")
	}
	if ctx.IsSet("baud") {
		cfg.Baud = ctx.Int("baud")
	}
	if ctx.IsSet("wake") {
		cfg.TrailingWakeByte = ctx.Bool("wake")
	}
	if ctx.NArg() >= 1 {
		cfg.SSID = ctx.Args().Get(0)
	}
	if ctx.NArg() >= 2 {
		cfg.PSK = ctx.Args().Get(1)
	}

	if cfg.Port == "" || cfg.SSID == "" || cfg.PSK == "" {
		return cli.Exit("usage: improvctl --port <port> <ssid> <psk>", 2)
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return errors.Wrap(err, "could not open serial port")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !ctx.Bool("debug") {
		logger = logger.Level(zerolog.InfoLevel)
	}

	client := improv.NewClient(port, &improv.Config{
		TrailingWakeByte: cfg.TrailingWakeByte,
		StateHandler: func(s packet.CurrentState) {
			fmt.Println("device state:", s)
		},
		ErrorHandler: func(e packet.ErrorState) {
			fmt.Println("device error:", e)
		},
		ResultHandler: func(r packet.RPCResult) {
			for _, v := range r.Values {
				fmt.Printf("result value: %s\n", v)
			}
		},
		DisconnectHandler: func(err error, expected bool) {
			if !expected {
				logger.Error().Err(err).Msg("unexpected disconnect")
			}
		},
	}, presets.NewZerologLogger(logger))

	if err := client.Start(); err != nil {
		return errors.Wrap(err, "could not start client")
	}

	commands := []struct {
		name string
		send func() error
	}{
		{"request current state", client.RequestCurrentState},
		{"request device information", client.RequestDeviceInformation},
		{"request scanned wifi networks", client.RequestScannedWifiNetworks},
		{"send wifi settings", func() error { return client.SendWifiSettings(cfg.SSID, cfg.PSK) }},
	}

	fmt.Println("press enter to send the next command, ctrl-d to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for i := 0; scanner.Scan(); i++ {
		cmd := commands[i%len(commands)]

		fmt.Println("sending:", cmd.name)

		if err := cmd.send(); err != nil {
			logger.Error().Err(err).Str("command", cmd.name).Msg("send failed")
		}
	}

	return client.Close()
}
