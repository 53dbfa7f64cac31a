package state

// MoveCursor moves the highlight by delta rows, wrapping at both ends.
func (p *Palette) MoveCursor(delta int) bool {
	n := len(p.Items)
	if n == 0 {
		p.Cursor = 0
		return false
	}
	old := p.Cursor
	p.Cursor = ((p.Cursor+delta)%n + n) % n
	return p.Cursor != old
}

// MoveCursorPage moves by a page of rows without wrapping.
func (p *Palette) MoveCursorPage(pages, visible int) bool {
	n := len(p.Items)
	if n == 0 {
		p.Cursor = 0
		return false
	}
	if visible <= 0 || visible > n {
		visible = n
	}
	old := p.Cursor
	p.Cursor += pages * visible
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.Cursor >= n {
		p.Cursor = n - 1
	}
	return p.Cursor != old
}

// Visible returns the rows that fit in a window of height rows, scrolling
// the viewport so the highlight stays in view.
func (p *Palette) Visible(height int) []Item {
	n := len(p.Items)
	if n == 0 || height <= 0 {
		p.ViewportOffset = 0
		return nil
	}
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.Cursor >= n {
		p.Cursor = n - 1
	}
	if p.Cursor < p.ViewportOffset {
		p.ViewportOffset = p.Cursor
	}
	if p.Cursor >= p.ViewportOffset+height {
		p.ViewportOffset = p.Cursor - height + 1
	}
	if limit := n - height; p.ViewportOffset > limit {
		p.ViewportOffset = limit
	}
	if p.ViewportOffset < 0 {
		p.ViewportOffset = 0
	}
	end := p.ViewportOffset + height
	if end > n {
		end = n
	}
	return p.Items[p.ViewportOffset:end]
}
