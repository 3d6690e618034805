// Package input implements the keyboard and mouse device ports: a
// one-cell last-key buffer and a cyclic three-cell mouse buffer, fed by
// host key/mouse events polled from a pixelgl.Window.
package input

import "github.com/faiface/pixel/pixelgl"

// keyEntry pairs a host key with the Firth character code ns.c's
// keymap() returns for it. A fixed-length table walked with range,
// replacing the original's zero-sentinel-terminated C array (its loop
// `for (i=0; map[i]; ++i)` would stop early at any key whose code
// happens to be the zero key, SDLK_0 -- re-specified here rather than
// carried over).
type keyEntry struct {
	key   pixelgl.Button
	firth byte
}

// table is original_source/ns.c's keymap(), shifted by 0x30 under Shift
// exactly as the original computes (`mod&KMOD_SHIFT ? 0x30+i : i`).
var table = []keyEntry{
	{pixelgl.Key0, 0x00}, {pixelgl.Key1, 0x01}, {pixelgl.Key2, 0x02}, {pixelgl.Key3, 0x03},
	{pixelgl.Key4, 0x04}, {pixelgl.Key5, 0x05}, {pixelgl.Key6, 0x06}, {pixelgl.Key7, 0x07},
	{pixelgl.Key8, 0x08}, {pixelgl.Key9, 0x09},
	{pixelgl.KeyA, 0x0a}, {pixelgl.KeyB, 0x0b}, {pixelgl.KeyC, 0x0c}, {pixelgl.KeyD, 0x0d},
	{pixelgl.KeyE, 0x0e}, {pixelgl.KeyF, 0x0f}, {pixelgl.KeyG, 0x10}, {pixelgl.KeyH, 0x11},
	{pixelgl.KeyI, 0x12}, {pixelgl.KeyJ, 0x13}, {pixelgl.KeyK, 0x14}, {pixelgl.KeyL, 0x15},
	{pixelgl.KeyM, 0x16}, {pixelgl.KeyN, 0x17}, {pixelgl.KeyO, 0x18}, {pixelgl.KeyP, 0x19},
	{pixelgl.KeyQ, 0x1a}, {pixelgl.KeyR, 0x1b}, {pixelgl.KeyS, 0x1c}, {pixelgl.KeyT, 0x1d},
	{pixelgl.KeyU, 0x1e}, {pixelgl.KeyV, 0x1f}, {pixelgl.KeyW, 0x20}, {pixelgl.KeyX, 0x21},
	{pixelgl.KeyY, 0x22}, {pixelgl.KeyZ, 0x23},
	{pixelgl.KeyComma, 0x24}, {pixelgl.KeyPeriod, 0x25}, {pixelgl.KeySlash, 0x26},
	{pixelgl.KeySemicolon, 0x27}, {pixelgl.KeyApostrophe, 0x28},
	{pixelgl.KeyLeftBracket, 0x29}, {pixelgl.KeyRightBracket, 0x2a},
	{pixelgl.KeyBackslash, 0x2b}, {pixelgl.KeyGraveAccent, 0x2c},
	{pixelgl.KeyMinus, 0x2d}, {pixelgl.KeyEqual, 0x2e}, {pixelgl.KeySpace, 0x2f},
}

// firthFor translates a host key into its Firth code, applying the shift
// offset, or reports ok=false for a key with no table entry.
func firthFor(k pixelgl.Button, shift bool) (byte, bool) {
	for _, e := range table {
		if e.key == k {
			if shift {
				return 0x30 + e.firth, true
			}
			return e.firth, true
		}
	}
	return 0, false
}

// metaFirth maps the non-printing keys ns.c:keymap() special-cases after
// its table scan fails (Enter/Tab/Backspace/meta/alt/ctrl).
func metaFirth(k pixelgl.Button) (byte, bool) {
	switch k {
	case pixelgl.KeyEnter:
		return 0x61, true
	case pixelgl.KeyTab:
		return 0x51, true
	case pixelgl.KeyBackspace:
		return 0x62, true
	case pixelgl.KeyLeftSuper, pixelgl.KeyRightSuper:
		return 0x63, true
	case pixelgl.KeyLeftAlt, pixelgl.KeyRightAlt:
		return 0x64, true
	case pixelgl.KeyLeftControl, pixelgl.KeyRightControl:
		return 0x65, true
	default:
		return 0, false
	}
}
