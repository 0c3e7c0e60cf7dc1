// Package pixfmt defines the color value used by gdisp and the pixel formats
// display controllers store it in.
//
// A Color is always held as 0x00RRGGBB. Each Format knows how to pack a Color
// into its native value (the bits a controller expects on the wire or in its
// RAM) and how to expand a native value back into a Color. Expansion uses bit
// replication, so full intensity and zero survive every format exactly and
// the loss for other values is bounded by the channel width of the format.
//
// Supported formats and their storage size per pixel:
//
//	Mono    1 bit   (luminance thresholded at 50%)
//	RGB332  8 bits
//	RGB444  12 bits (two pixels share three bytes)
//	RGB565  16 bits
//	RGB666  24 bits (one channel per byte, left aligned, low two bits zero)
//	RGB888  24 bits
//
// Memory layout of a Buffer is linear in pixels, row after row, most
// significant bit first. For RGB444 a 4-pixel row looks like:
//
//	Pixels: 0     1     2     3
//	Values: 0xF00 0x0F0 0x00F 0x123
//	Bytes:  0xF0 0x00 0xF0 0x00 0xF1 0x23
//
// Buffers are the source of blit operations:
//
//	buf, err := pixfmt.NewBuffer(pixfmt.RGB565, image.Rect(0, 0, 16, 16))
//	if err != nil {
//		return err
//	}
//	buf.SetColor(3, 4, pixfmt.Red)
//	d.BlitArea(10, 10, 16, 16, buf)
//
// Buffers implement draw.Image, so the standard library can paint into them:
//
//	draw.Draw(buf, buf.Bounds(), image.NewUniform(pixfmt.White), image.Point{}, draw.Src)
package pixfmt
