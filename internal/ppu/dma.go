package ppu

import "gbxcore/internal/scheduler"

// oamDMA models the Game Boy's OAM DMA engine (§4.6): a one-cycle
// "Starting" stage that reads the first source byte without writing,
// followed by 160 cycles that each read source[i] and write the
// previous cycle's byte to OAM[i-1].
type oamDMA struct {
	active bool
	source uint16
	index  int
	latch  uint8

	// busRead is supplied by the bus so the DMA engine can read from
	// ROM/RAM/VRAM/WRAM without importing the bus package.
	busRead func(addr uint16) uint8
}

// AttachBusReader lets the bus register its read function after both
// sides are constructed, avoiding an import cycle.
func (c *Controller) AttachBusReader(read func(addr uint16) uint8) {
	c.dma.busRead = read
}

// StartOAMDMA begins a transfer from source*0x100; starting a new one
// while another is active simply restarts it, keeping the bus blocked
// continuously as the spec requires.
func (c *Controller) StartOAMDMA(source uint8) {
	c.dma.active = true
	c.dma.source = uint16(source) << 8
	c.dma.index = 0
	c.s.ScheduleEvent(scheduler.DMAStart, 4)
}

// OAMDMAActive reports whether a transfer is in progress; the bus
// consults this to block all non-HRAM accesses.
func (c *Controller) OAMDMAActive() bool { return c.dma.active }

func (c *Controller) dmaStart() {
	c.dma.latch = c.dma.busRead(c.dma.source)
	c.s.ScheduleEvent(scheduler.DMAStep, 4)
}

func (c *Controller) dmaStep() {
	c.oam[c.dma.index] = c.dma.latch
	c.dma.index++
	if c.dma.index >= len(c.oam) {
		c.s.ScheduleEvent(scheduler.DMAEnd, 4)
		return
	}
	c.dma.latch = c.dma.busRead(c.dma.source + uint16(c.dma.index))
	c.s.ScheduleEvent(scheduler.DMAStep, 4)
}

func (c *Controller) dmaEnd() {
	c.dma.active = false
}
