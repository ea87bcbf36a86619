package apu

// squareDuty holds, for each of the four NRx1 duty settings, the
// fraction of the 8-step waveform that is high.
var squareDuty = [4]float32{0.125, 0.25, 0.5, 0.75}

// envelope is the NRx2 volume envelope shared by channels 1, 2 and 4.
// An NRx2 write does not change the current volume of a playing
// channel; the zombie-mode glitch is not modelled.
type envelope struct {
	startingVolume uint8
	addMode        bool
	period         uint8
	timer          uint8
	currentVolume  uint8
}

func (e *envelope) writeNRx2(v uint8, enabled *bool, dacEnabled *bool) {
	*dacEnabled = v&0xF8 != 0
	if !*dacEnabled {
		*enabled = false
	}
	e.startingVolume = v >> 4
	e.addMode = v&0x08 != 0
	e.period = v & 0x07
}

func (e *envelope) readNRx2() uint8 {
	b := e.startingVolume<<4 | e.period
	if e.addMode {
		b |= 0x08
	}
	return b
}

func (e *envelope) trigger() {
	e.timer = e.period
	e.currentVolume = e.startingVolume
}

func (e *envelope) step() {
	if e.period == 0 {
		return
	}
	if e.timer > 0 {
		e.timer--
	}
	if e.timer != 0 {
		return
	}
	e.timer = e.period
	if e.addMode && e.currentVolume < 0xF {
		e.currentVolume++
	} else if !e.addMode && e.currentVolume > 0 {
		e.currentVolume--
	}
}

// lengthCounter is the NRx1/NRx4 length-counter logic shared by all
// four channels, including the documented extra-clock-on-enable quirk.
type lengthCounter struct {
	counter uint16
	full    uint16 // 64 for channels 1/2/4, 256 for channel 3
	enabled bool
}

func (l *lengthCounter) write(load uint8) {
	l.counter = l.full - uint16(load)
}

func (l *lengthCounter) step(channelEnabled *bool) {
	if l.enabled && l.counter > 0 {
		l.counter--
		if l.counter == 0 {
			*channelEnabled = false
		}
	}
}

func (l *lengthCounter) trigger(firstHalf bool) {
	if l.counter == 0 {
		l.counter = l.full
		if l.enabled && firstHalf {
			l.counter--
		}
	}
}

// writeNRx4LengthBit updates the length-enabled bit, applying the
// documented quirk where enabling length on the first half of a
// length period clocks it immediately.
func writeNRx4LengthBit(v uint8, l *lengthCounter, firstHalf bool, channelEnabled *bool) {
	newEnabled := v&0x40 != 0
	if firstHalf && !l.enabled && newEnabled && l.counter > 0 {
		l.counter--
		if l.counter == 0 {
			*channelEnabled = false
		}
	}
	l.enabled = newEnabled
}

// squareChannel models channels 1 and 2: duty, volume envelope, length
// counter, and (channel 1 only) the frequency sweep unit.
type squareChannel struct {
	enabled, dacEnabled bool
	duty                uint8
	frequency           uint16
	env                 envelope
	length              lengthCounter
	phase               float32

	hasSweep          bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	sweepTimer        uint8
	sweepShadowFreq   uint16
	sweepEnabled      bool
	negateHasHappened bool
}

func newSquareChannel(hasSweep bool) *squareChannel {
	return &squareChannel{length: lengthCounter{full: 64}, hasSweep: hasSweep}
}

func (c *squareChannel) writeNR1(v uint8) {
	c.duty = v >> 6
	c.length.write(v & 0x3F)
}

func (c *squareChannel) readNR1() uint8 { return c.duty<<6 | 0x3F }

func (c *squareChannel) writeNR2(v uint8) { c.env.writeNRx2(v, &c.enabled, &c.dacEnabled) }
func (c *squareChannel) readNR2() uint8   { return c.env.readNRx2() }

func (c *squareChannel) writeFreqLo(v uint8) { c.frequency = c.frequency&0x700 | uint16(v) }

func (c *squareChannel) writeNR4(v uint8, firstHalf bool) {
	c.frequency = c.frequency&0x00FF | uint16(v&0x07)<<8
	writeNRx4LengthBit(v, &c.length, firstHalf, &c.enabled)
	if v&0x80 != 0 {
		c.trigger(firstHalf)
	}
}

func (c *squareChannel) readNR4() uint8 {
	b := uint8(0)
	if c.length.enabled {
		b |= 0x40
	}
	return b | 0xBF
}

func (c *squareChannel) trigger(firstHalf bool) {
	c.enabled = c.dacEnabled
	c.length.trigger(firstHalf)
	c.env.trigger()
	if c.hasSweep {
		c.sweepShadowFreq = c.frequency
		if c.sweepPeriod > 0 {
			c.sweepTimer = c.sweepPeriod
		} else {
			c.sweepTimer = 8
		}
		c.sweepEnabled = c.sweepPeriod > 0 || c.sweepShift > 0
		c.negateHasHappened = false
		if c.sweepShift > 0 {
			c.sweepCalculate()
		}
	}
}

func (c *squareChannel) writeNR10(v uint8) {
	c.sweepPeriod = (v & 0x70) >> 4
	c.sweepNegate = v&0x08 != 0
	c.sweepShift = v & 0x07
	if !c.sweepNegate && c.negateHasHappened {
		c.enabled = false
	}
}

func (c *squareChannel) readNR10() uint8 {
	b := c.sweepPeriod<<4 | c.sweepShift
	if c.sweepNegate {
		b |= 0x08
	}
	return b | 0x80
}

func (c *squareChannel) sweepCalculate() uint16 {
	freq := c.sweepShadowFreq >> c.sweepShift
	if c.sweepNegate {
		freq = c.sweepShadowFreq - freq
	} else {
		freq = c.sweepShadowFreq + freq
	}
	c.negateHasHappened = c.sweepNegate
	if freq > 2047 {
		c.enabled = false
	}
	return freq
}

func (c *squareChannel) sweepStep() {
	if !c.hasSweep {
		return
	}
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	if c.sweepPeriod > 0 {
		c.sweepTimer = c.sweepPeriod
	} else {
		c.sweepTimer = 8
	}
	if !c.sweepEnabled || c.sweepPeriod == 0 {
		return
	}
	freq := c.sweepCalculate()
	if freq <= 2047 && c.sweepShift > 0 {
		c.sweepShadowFreq = freq
		c.frequency = freq
		c.sweepCalculate()
	}
}

func (c *squareChannel) isEnabled() bool { return c.enabled && c.dacEnabled }

// amplitude advances the channel's phase by one sample period (at
// sampleRate) and returns its current DAC output in [-1, 1]. Exact
// frequency-timer/duty-position bit stepping (the hardware's real
// per-T-cycle behaviour) is not modelled; only the sample-rate output
// a mixed PCM stream needs is, matching the advance-clock contract
// this core promises for audio.
func (c *squareChannel) amplitude() float32 {
	if !c.isEnabled() {
		return 0
	}
	freq := 131072.0 / float32(2048-c.frequency)
	c.phase += freq / sampleRate
	for c.phase >= 1 {
		c.phase -= 1
	}
	high := c.phase < squareDuty[c.duty]
	level := float32(0)
	if high {
		level = 1
	}
	return (level*float32(c.env.currentVolume)/7.5 - 1)
}

// waveChannel models channel 3: user-defined waveform RAM played back
// at a programmable frequency and output-level shift.
type waveChannel struct {
	enabled, dacEnabled bool
	length              lengthCounter
	frequency           uint16
	volumeShift         uint8
	ram                 [16]uint8
	phase               float32
}

func newWaveChannel() *waveChannel {
	return &waveChannel{length: lengthCounter{full: 256}}
}

func (c *waveChannel) writeNR30(v uint8) {
	c.dacEnabled = v&0x80 != 0
	c.enabled = c.dacEnabled
}

func (c *waveChannel) readNR30() uint8 {
	b := uint8(0)
	if c.dacEnabled {
		b = 0x80
	}
	return b | 0x7F
}

func (c *waveChannel) writeNR31(v uint8) { c.length.write(v) }

func (c *waveChannel) writeNR32(v uint8) {
	switch (v & 0x60) >> 5 {
	case 0b00:
		c.volumeShift = 4 // mute
	case 0b01:
		c.volumeShift = 0
	case 0b10:
		c.volumeShift = 1
	case 0b11:
		c.volumeShift = 2
	}
}

func (c *waveChannel) writeFreqLo(v uint8) { c.frequency = c.frequency&0x700 | uint16(v) }

func (c *waveChannel) writeNR34(v uint8, firstHalf bool) {
	c.frequency = c.frequency&0x00FF | uint16(v&0x07)<<8
	writeNRx4LengthBit(v, &c.length, firstHalf, &c.enabled)
	if v&0x80 != 0 {
		c.enabled = c.dacEnabled
		c.length.trigger(firstHalf)
		c.phase = 0
	}
}

func (c *waveChannel) readNR34() uint8 {
	b := uint8(0)
	if c.length.enabled {
		b |= 0x40
	}
	return b | 0xBF
}

func (c *waveChannel) isEnabled() bool { return c.enabled && c.dacEnabled }

func (c *waveChannel) amplitude() float32 {
	if !c.isEnabled() || c.volumeShift == 4 {
		return 0
	}
	freq := 65536.0 / float32(2048-c.frequency)
	c.phase += freq / sampleRate
	for c.phase >= 1 {
		c.phase -= 1
	}
	index := int(c.phase * 32)
	sample := c.ram[index/2]
	if index%2 == 0 {
		sample >>= 4
	} else {
		sample &= 0x0F
	}
	sample >>= c.volumeShift
	return float32(sample)/7.5 - 1
}

// noiseChannel models channel 4: an LFSR clocked at a programmable
// rate, with the same envelope and length-counter units as 1/2.
type noiseChannel struct {
	enabled, dacEnabled bool
	env                 envelope
	length              lengthCounter
	clockShift          uint8
	widthMode           bool
	divisorCode         uint8
	lfsr                uint16
	phaseAccum          float32
}

func newNoiseChannel() *noiseChannel {
	return &noiseChannel{length: lengthCounter{full: 64}, lfsr: 0x7FFF}
}

func (c *noiseChannel) writeNR42(v uint8) { c.env.writeNRx2(v, &c.enabled, &c.dacEnabled) }
func (c *noiseChannel) readNR42() uint8   { return c.env.readNRx2() }

func (c *noiseChannel) writeNR43(v uint8) {
	c.clockShift = v >> 4
	c.widthMode = v&0x08 != 0
	c.divisorCode = v & 0x07
}

func (c *noiseChannel) readNR43() uint8 {
	b := c.clockShift << 4
	if c.widthMode {
		b |= 0x08
	}
	return b | c.divisorCode
}

var noiseDivisors = [8]float32{8, 16, 32, 48, 64, 80, 96, 112}

func (c *noiseChannel) writeNR44(v uint8, firstHalf bool) {
	writeNRx4LengthBit(v, &c.length, firstHalf, &c.enabled)
	if v&0x80 != 0 {
		c.enabled = c.dacEnabled
		c.length.trigger(firstHalf)
		c.env.trigger()
		c.lfsr = 0x7FFF
	}
}

func (c *noiseChannel) readNR44() uint8 {
	b := uint8(0)
	if c.length.enabled {
		b |= 0x40
	}
	return b | 0xBF
}

func (c *noiseChannel) isEnabled() bool { return c.enabled && c.dacEnabled }

func (c *noiseChannel) step() {
	newBit := (c.lfsr & 0x01) ^ ((c.lfsr & 0x02) >> 1)
	c.lfsr >>= 1
	c.lfsr |= newBit << 14
	if c.widthMode {
		c.lfsr &^= 1 << 6
		c.lfsr |= newBit << 6
	}
}

func (c *noiseChannel) amplitude() float32 {
	if !c.isEnabled() {
		return 0
	}
	freq := 524288.0 / noiseDivisors[c.divisorCode] / float32(uint16(1)<<c.clockShift)
	c.phaseAccum += freq / sampleRate
	for c.phaseAccum >= 1 {
		c.phaseAccum -= 1
		c.step()
	}
	if c.lfsr&1 != 0 {
		return 0
	}
	return float32(c.env.currentVolume)/7.5 - 1
}

