package gdisp

import "image"

// area is a rectangular drawing request. SrcX and SrcY locate the matching
// pixel of a blit source and move with the destination when it is clipped.
type area struct {
	X, Y, CX, CY int
	SrcX, SrcY   int
}

// clipArea trims a to clip. It reports false when nothing is left to draw,
// including when the requested size is zero or negative.
func clipArea(a area, clip image.Rectangle) (area, bool) {
	if a.CX <= 0 || a.CY <= 0 {
		return a, false
	}
	if a.X < clip.Min.X {
		a.CX -= clip.Min.X - a.X
		a.SrcX += clip.Min.X - a.X
		a.X = clip.Min.X
	}
	if a.Y < clip.Min.Y {
		a.CY -= clip.Min.Y - a.Y
		a.SrcY += clip.Min.Y - a.Y
		a.Y = clip.Min.Y
	}
	if a.X+a.CX > clip.Max.X {
		a.CX = clip.Max.X - a.X
	}
	if a.Y+a.CY > clip.Max.Y {
		a.CY = clip.Max.Y - a.Y
	}
	if a.CX <= 0 || a.CY <= 0 {
		return a, false
	}
	return a, true
}

// rect returns the destination rectangle of a.
func (a area) rect() image.Rectangle {
	return image.Rect(a.X, a.Y, a.X+a.CX, a.Y+a.CY)
}

// screen returns the full logical screen.
func (d *Display) screen() image.Rectangle {
	return image.Rect(0, 0, d.st.Width, d.st.Height)
}

// clipped trims a to the current clip, unless validation is disabled in
// which case only empty requests are rejected.
func (d *Display) clipped(a area) (area, bool) {
	if d.opts.NoValidation {
		return a, a.CX > 0 && a.CY > 0
	}
	return clipArea(a, d.st.Clip)
}

// inClip reports whether the pixel (x, y) may be drawn.
func (d *Display) inClip(x, y int) bool {
	if d.opts.NoValidation {
		return true
	}
	return image.Pt(x, y).In(d.st.Clip)
}

// contains reports whether r lies entirely inside the clip, which is when
// an accelerated shape can be handed to the driver unclipped.
func (d *Display) contains(r image.Rectangle) bool {
	if d.opts.NoValidation {
		return true
	}
	return r.In(d.st.Clip)
}

// visible reports whether r touches the clip at all.
func (d *Display) visible(r image.Rectangle) bool {
	if d.opts.NoValidation {
		return true
	}
	return r.Overlaps(d.st.Clip)
}

// setClip makes the intersection of r and the screen the new clip.
func (d *Display) setClip(r image.Rectangle) {
	r = r.Intersect(d.screen())
	d.st.Clip = r
	if d.ops.clip != nil {
		d.ops.clip(r)
	}
}
