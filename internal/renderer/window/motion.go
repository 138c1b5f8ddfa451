package window

// MoveChar moves the point n characters, backward when n is negative.
func (w *Window) MoveChar(n int) {
	p := w.point
	for ; n > 0 && p < w.buf.Size(); n-- {
		_, p = w.buf.NextChar(p)
	}
	for ; n < 0 && p > 0; n++ {
		_, p = w.buf.PrevChar(p)
	}
	w.SetPoint(p)
}

// MoveLine moves the point n lines, keeping the column it had before the
// first vertical move.
func (w *Window) MoveLine(n int) {
	line, col := w.buf.LineCol(w.point)
	if w.goalCol >= 0 {
		col = w.goalCol
	}
	target := max(0, min(line+n, w.buf.LineCount()-1))
	w.point = w.buf.GotoLineCol(target, col)
	w.goalCol = col
	w.EnsurePointVisible()
}

// LineBegin moves the point to the start of its line.
func (w *Window) LineBegin() {
	w.SetPoint(w.buf.LineStart(w.buf.LineOf(w.point)))
}

// LineEnd moves the point to the end of its line.
func (w *Window) LineEnd() {
	w.SetPoint(w.buf.LineEnd(w.buf.LineOf(w.point)))
}

// BufferBegin moves the point to offset 0.
func (w *Window) BufferBegin() { w.SetPoint(0) }

// BufferEnd moves the point to the end of the buffer.
func (w *Window) BufferEnd() { w.SetPoint(w.buf.Size()) }

// WordForward moves the point past the end of the next word.
func (w *Window) WordForward() {
	isWord := w.IsWord()
	p, size := w.point, w.buf.Size()
	for p < size {
		r, next := w.buf.NextChar(p)
		if isWord(r) {
			break
		}
		p = next
	}
	for p < size {
		r, next := w.buf.NextChar(p)
		if !isWord(r) {
			break
		}
		p = next
	}
	w.SetPoint(p)
}

// WordBackward moves the point to the start of the previous word.
func (w *Window) WordBackward() {
	isWord := w.IsWord()
	p := w.point
	for p > 0 {
		r, prev := w.buf.PrevChar(p)
		if isWord(r) {
			break
		}
		p = prev
	}
	for p > 0 {
		r, prev := w.buf.PrevChar(p)
		if !isWord(r) {
			break
		}
		p = prev
	}
	w.SetPoint(p)
}
