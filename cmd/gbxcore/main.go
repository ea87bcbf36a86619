// Command gbxcore is a thin CLI adapter over the core: it turns flags
// into Options, loads a ROM and optional save file, and drives the
// machine headlessly. It owns no window, audio device, or input
// capture — those stay external collaborators per the core's scope —
// so this binary mainly exists to exercise the package boundary the
// way a real front end would.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/urfave/cli"

	"gbxcore/internal/cartridge"
	"gbxcore/internal/corelog"
	"gbxcore/internal/corerr"
	"gbxcore/internal/cpu"
	"gbxcore/internal/machine"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbxcore"
	app.Usage = "a cycle-accurate Game Boy / Game Boy Color / Game Boy Advance core"
	app.ArgsUsage = "<rom-path>"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "m", Value: "auto", Usage: "console to emulate: auto, dmg, cgb, agb"},
		cli.StringFlag{Name: "l", Value: "regular", Usage: "log verbosity: none, regular, timer, lcd, trace, registers"},
		cli.IntFlag{Name: "s", Value: 1, Usage: "pixel scale 1-8"},
		cli.BoolFlag{Name: "f", Usage: "start fullscreen"},
		cli.BoolFlag{Name: "multicart", Usage: "treat an MBC1 cart as MBC1 multicart layout"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	romPath := ctx.Args().First()
	if romPath == "" {
		return cli.NewExitError("a ROM path is required", 1)
	}
	if scale := ctx.Int("s"); scale < 1 || scale > 8 {
		return cli.NewExitError("pixel scale must be between 1 and 8", 1)
	}

	log := corelog.New("cmd", logLevel(ctx.String("l")))

	rom, err := cartridge.LoadROM(romPath)
	if err != nil {
		return corerr.HostIO(true, err, "loading ROM %s", romPath)
	}

	opts := []machine.Option{}
	if model, ok := parseModel(ctx.String("m")); ok {
		opts = append(opts, machine.WithModel(model))
	}
	opts = append(opts, machine.WithLogger(log))

	mc, warnings, err := machine.New(rom, cartridge.Options{ForceMulticart: ctx.Bool("multicart")}, opts...)
	for _, w := range warnings {
		log.Warnf("%v", w)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	savePath := romPath + ".sav"
	if data, err := os.ReadFile(savePath); err == nil {
		mc.LoadRAM(data)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	log.Infof("running %s as %v", filepath.Base(romPath), mc.Model())
runLoop:
	for {
		select {
		case <-quit:
			break runLoop
		default:
			mc.RunFrame()
		}
	}

	if data := mc.SaveRAM(); len(data) > 0 {
		if err := os.WriteFile(savePath, data, 0o644); err != nil {
			log.Warnf("flushing save file %s: %v", savePath, err)
		}
	}
	return nil
}

func parseModel(s string) (cpu.Model, bool) {
	switch s {
	case "dmg":
		return cpu.DMG, true
	case "cgb":
		return cpu.CGBABC, true
	case "agb":
		return cpu.AGB, true
	default:
		return 0, false
	}
}

func logLevel(s string) corelog.Level {
	switch s {
	case "none":
		return corelog.LevelNone
	case "timer":
		return corelog.LevelTimer
	case "lcd":
		return corelog.LevelLCD
	case "trace":
		return corelog.LevelTrace
	case "registers":
		return corelog.LevelRegisters
	default:
		return corelog.LevelRegular
	}
}
