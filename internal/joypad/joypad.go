// Package joypad implements the Game Boy's P1/JOYP register: a pair of
// 4-bit key matrices (direction keys, action keys) multiplexed onto
// one nibble of readback by two select bits, with a joypad interrupt
// fired on any newly-pressed key the game is currently selecting
// (§4.6).
package joypad

import "gbxcore/internal/interrupts"

// Button identifies one physical key. The numeric values match P1's
// bit layout: action keys (A/B/Select/Start) occupy the low nibble,
// direction keys the high nibble, of the internal press mask.
type Button uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

const Register uint16 = 0xFF00

// Controller tracks which keys are currently held and the host's
// nibble-select bits, and produces the P1 readback value.
type Controller struct {
	irq *interrupts.Controller

	selectBits uint8 // bits 4-5 as last written: 0 selects a matrix
	pressed    uint8 // one bit per Button, 1 = held
}

// NewController returns a joypad with no keys pressed and both
// matrices deselected.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, selectBits: 0x30}
}

func (c *Controller) Read(uint16) uint8 {
	v := c.selectBits | 0xC0
	if c.selectBits&0x10 == 0 { // direction keys selected
		v |= 0x0F &^ (c.pressed >> 4)
	} else if c.selectBits&0x20 == 0 { // action keys selected
		v |= 0x0F &^ (c.pressed & 0x0F)
	} else {
		v |= 0x0F
	}
	return v
}

func (c *Controller) Write(_ uint16, value uint8) {
	c.selectBits = value & 0x30
}

// Press marks key held. If the key was not already held and the
// matrix it belongs to is currently selected, the joypad interrupt
// fires (the transition games poll for, §4.6).
func (c *Controller) Press(key Button) {
	alreadyHeld := c.pressed&uint8(key) != 0
	c.pressed |= uint8(key)
	if alreadyHeld {
		return
	}
	isDirection := key >= ButtonRight
	if isDirection && c.selectBits&0x10 == 0 {
		c.irq.Request(interrupts.JoypadFlag)
	} else if !isDirection && c.selectBits&0x20 == 0 {
		c.irq.Request(interrupts.JoypadFlag)
	}
}

// Release marks key no longer held.
func (c *Controller) Release(key Button) {
	c.pressed &^= uint8(key)
}
