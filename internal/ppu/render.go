package ppu

import "sort"

// dmgShades maps a DMG 2-bit colour index through a BGP/OBPn register
// into one of four greys, expressed here as 15-bit BGR555 so the
// framebuffer format is uniform between DMG and CGB.
var dmgShades = [4]uint16{0x7FFF, 0x56B5, 0x294A, 0x0000}

func (c *Controller) dmgColour(palette uint8, index uint8) uint16 {
	shade := (palette >> (index * 2)) & 0x03
	return dmgShades[shade]
}

// renderLine computes one completed scanline into the back buffer at
// mode-3 entry, per §4.4: whole-scanline rendering rather than a
// pixel-accurate FIFO, which is an explicit non-goal.
func (c *Controller) renderLine() {
	if !c.bit(c.lcdc, lcdcDisplayEnable) || c.ly >= ScreenHeight {
		return
	}

	var colourIndex [ScreenWidth]uint8
	var bgPriority [ScreenWidth]bool

	if c.bit(c.lcdc, lcdcBGEnable) || c.cgb {
		c.renderBackground(&colourIndex, &bgPriority)
	}
	if c.bit(c.lcdc, lcdcWindowEnable) && c.wy <= c.ly {
		c.renderWindow(&colourIndex, &bgPriority)
	}

	var row [ScreenWidth]uint16
	for x := 0; x < ScreenWidth; x++ {
		row[x] = c.dmgColour(c.bgp, colourIndex[x])
	}
	if c.bit(c.lcdc, lcdcOBJEnable) {
		c.renderSprites(&row, &bgPriority)
	}
	c.back[c.ly] = row
}

func (c *Controller) tileDataOffset(tileIndex uint8) uint16 {
	if c.bit(c.lcdc, lcdcTileDataSelect) {
		return uint16(tileIndex) * 16
	}
	return uint16(0x1000 + int16(int8(tileIndex))*16)
}

func (c *Controller) rowPixels(tileBase uint16, row uint8) [8]uint8 {
	lo := c.vram[0][tileBase+uint16(row)*2]
	hi := c.vram[0][tileBase+uint16(row)*2+1]
	var out [8]uint8
	for bit := 0; bit < 8; bit++ {
		shift := uint(7 - bit)
		out[bit] = (lo>>shift)&1 | (hi>>shift)&1<<1
	}
	return out
}

func (c *Controller) renderBackground(colourIndex *[ScreenWidth]uint8, priority *[ScreenWidth]bool) {
	mapBase := uint16(0x1800)
	if c.bit(c.lcdc, lcdcBGTileMap) {
		mapBase = 0x1C00
	}
	y := c.scy + c.ly
	tileRow := uint16(y/8) * 32

	for x := 0; x < ScreenWidth; x++ {
		effX := c.scx + uint8(x)
		tileCol := uint16(effX / 8)
		tileIndex := c.vram[0][mapBase+tileRow+tileCol]
		pixels := c.rowPixels(c.tileDataOffset(tileIndex), y%8)
		idx := pixels[effX%8]
		colourIndex[x] = idx
		priority[x] = idx != 0
	}
}

func (c *Controller) renderWindow(colourIndex *[ScreenWidth]uint8, priority *[ScreenWidth]bool) {
	if int(c.wx) > ScreenWidth+7 {
		return
	}
	mapBase := uint16(0x1800)
	if c.bit(c.lcdc, lcdcWindowTileMap) {
		mapBase = 0x1C00
	}
	tileRow := uint16(c.windowLine/8) * 32
	drawn := false

	for x := 0; x < ScreenWidth; x++ {
		wx := int(x) - (int(c.wx) - 7)
		if wx < 0 {
			continue
		}
		drawn = true
		tileCol := uint16(wx / 8)
		tileIndex := c.vram[0][mapBase+tileRow+tileCol]
		pixels := c.rowPixels(c.tileDataOffset(tileIndex), uint8(c.windowLine%8))
		idx := pixels[wx%8]
		colourIndex[x] = idx
		priority[x] = idx != 0
	}
	if drawn {
		c.windowLine++
	}
}

type visibleSprite struct {
	y, x, tile, attr uint8
	oamIndex         int
}

func (c *Controller) renderSprites(row *[ScreenWidth]uint16, bgPriority *[ScreenWidth]bool) {
	height := 8
	if c.bit(c.lcdc, lcdcOBJSize) {
		height = 16
	}

	var visible []visibleSprite
	for i := 0; i < 40 && len(visible) < 10; i++ {
		y := c.oam[i*4]
		top := int(y) - 16
		if int(c.ly) < top || int(c.ly) >= top+height {
			continue
		}
		visible = append(visible, visibleSprite{
			y:        y,
			x:        c.oam[i*4+1],
			tile:     c.oam[i*4+2],
			attr:     c.oam[i*4+3],
			oamIndex: i,
		})
	}

	// DMG priority: smaller X wins, ties broken by OAM order, so when
	// compositing back-to-front we draw larger X first. CGB ignores X
	// and uses OAM order alone.
	if !c.cgb {
		sort.SliceStable(visible, func(i, j int) bool {
			if visible[i].x != visible[j].x {
				return visible[i].x > visible[j].x
			}
			return visible[i].oamIndex > visible[j].oamIndex
		})
	} else {
		sort.SliceStable(visible, func(i, j int) bool { return visible[i].oamIndex > visible[j].oamIndex })
	}

	for _, sp := range visible {
		spriteRow := int(c.ly) - (int(sp.y) - 16)
		if sp.attr&0x40 != 0 { // Y flip
			spriteRow = height - 1 - spriteRow
		}
		tile := sp.tile
		if height == 16 {
			tile &^= 1
			if spriteRow >= 8 {
				tile |= 1
				spriteRow -= 8
			}
		}
		pixels := c.rowPixels(uint16(tile)*16, uint8(spriteRow))

		for col := 0; col < 8; col++ {
			screenX := int(sp.x) - 8 + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			srcCol := col
			if sp.attr&0x20 != 0 { // X flip
				srcCol = 7 - col
			}
			idx := pixels[srcCol]
			if idx == 0 {
				continue
			}
			if sp.attr&0x80 != 0 && bgPriority[screenX] && c.bit(c.lcdc, lcdcBGEnable) {
				continue // sprite hidden behind a non-zero BG colour
			}
			palette := c.obp0
			if sp.attr&0x10 != 0 {
				palette = c.obp1
			}
			row[screenX] = c.dmgColour(palette, idx)
		}
	}
}
