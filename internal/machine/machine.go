// Package machine ties the CPU, bus, PPU, timer, joypad, serial port,
// and interrupt controller into the single cooperative tick loop a
// Game Boy core runs (§5): stepping the CPU drives the scheduler,
// which in turn drives every other peripheral's timing.
package machine

import (
	"gbxcore/internal/apu"
	"gbxcore/internal/boot"
	"gbxcore/internal/bus"
	"gbxcore/internal/cartridge"
	"gbxcore/internal/cheats"
	"gbxcore/internal/corelog"
	"gbxcore/internal/corerr"
	"gbxcore/internal/cpu"
	"gbxcore/internal/interrupts"
	"gbxcore/internal/joypad"
	"gbxcore/internal/ppu"
	"gbxcore/internal/scheduler"
	"gbxcore/internal/serial"
	"gbxcore/internal/timer"
)

// Machine is one emulated Game Boy: a cartridge plugged into a fixed
// set of peripherals, stepped one CPU instruction at a time.
type Machine struct {
	CPU    *cpu.CPU
	Bus    *bus.Bus
	PPU    *ppu.Controller
	APU    *apu.Controller
	Timer  *timer.Controller
	Joypad *joypad.Controller
	Serial *serial.Controller
	IRQ    *interrupts.Controller
	Cart   *cartridge.Cartridge

	log       corelog.Logger
	scheduler *scheduler.Scheduler
	model     cpu.Model
	bootROM   *boot.ROM
	cheats    *cheats.Set
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithModel overrides the automatic model detection the cartridge
// header would otherwise drive.
func WithModel(m cpu.Model) Option {
	return func(mc *Machine) { mc.model = m }
}

// WithBootROM maps the given boot ROM image over low memory instead of
// starting with post-boot register state.
func WithBootROM(rom *boot.ROM) Option {
	return func(mc *Machine) { mc.bootROM = rom }
}

// WithLogger overrides the default logrus-backed logger.
func WithLogger(l corelog.Logger) Option {
	return func(mc *Machine) { mc.log = l }
}

// WithCheats attaches a Game Genie / Game Shark code set; every code
// it enables patches matching bus reads as they happen.
func WithCheats(c *cheats.Set) Option {
	return func(mc *Machine) { mc.cheats = c }
}

// New constructs a Machine around rom, picking a model from the
// cartridge header's console byte unless WithModel overrides it.
func New(rom []byte, cartOpts cartridge.Options, opts ...Option) (*Machine, []*corerr.Error, error) {
	cart, warnings, err := cartridge.Load(rom, cartOpts)
	if err != nil {
		return nil, warnings, err
	}

	mc := &Machine{Cart: cart, log: corelog.New("machine", corelog.LevelRegular)}
	if cart.Header.Console == cartridge.ConsoleCGB {
		mc.model = cpu.CGBABC
	} else {
		mc.model = cpu.DMG
	}
	for _, opt := range opts {
		opt(mc)
	}

	mc.IRQ = interrupts.NewController()
	mc.scheduler = scheduler.New()
	mc.Timer = timer.NewController(mc.IRQ, mc.scheduler)
	mc.Joypad = joypad.NewController(mc.IRQ)
	mc.Serial = serial.NewController(mc.IRQ, mc.scheduler)
	mc.PPU = ppu.New(mc.IRQ, mc.scheduler, mc.model.IsCGB())
	mc.APU = apu.New(mc.scheduler)

	mc.Bus = bus.New(cart, mc.bootROM, mc.PPU, mc.APU, mc.Timer, mc.Joypad, mc.Serial, mc.IRQ, mc.model)
	mc.CPU = cpu.New(mc.Bus, mc.scheduler, mc.IRQ, mc.model)
	if mc.bootROM != nil {
		mc.CPU.PC = 0x0000
	} else {
		mc.PPU.Write(ppu.LCDC, 0x91) // LCD on, as the boot ROM leaves it
	}
	mc.Bus.SetCPU(mc.CPU)
	if mc.cheats != nil {
		mc.Bus.SetCheats(mc.cheats)
	}

	return mc, warnings, nil
}

// Step executes exactly one CPU instruction (or interrupt dispatch, or
// halt/stop no-op cycle), advancing every peripheral the scheduler
// owns by however many cycles that took.
func (mc *Machine) Step() {
	mc.CPU.Step()
}

// RunFrame steps the machine until the PPU has swapped in a complete
// frame, then returns it. Matches the teacher's own frame-paced
// stepping loop, minus its GUI/windowing concerns, which are entirely
// out of scope for this core.
func (mc *Machine) RunFrame() *[ppu.ScreenHeight][ppu.ScreenWidth]uint16 {
	for !mc.PPU.HasFrame() {
		mc.Step()
	}
	mc.PPU.ClearFrame()
	return mc.PPU.Frame()
}

// AttachAudioSink directs PCM sample batches to snk instead of
// discarding them; the host is responsible for queuing them to an
// actual audio device.
func (mc *Machine) AttachAudioSink(snk apu.Sink) { mc.APU.AttachSink(snk) }

// Press and Release forward to the joypad controller.
func (mc *Machine) Press(b joypad.Button)   { mc.Joypad.Press(b) }
func (mc *Machine) Release(b joypad.Button) { mc.Joypad.Release(b) }

// Model reports the hardware model the machine is running as.
func (mc *Machine) Model() cpu.Model { return mc.model }

// SaveRAM and LoadRAM forward to the cartridge for battery-backed
// saves.
func (mc *Machine) SaveRAM() []byte     { return mc.Cart.SaveRAM() }
func (mc *Machine) LoadRAM(data []byte) { mc.Cart.LoadRAM(data) }
