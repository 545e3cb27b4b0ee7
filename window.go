package sheetio

// RowWindow is a closed interval of 1-based absolute row numbers. Row 1
// holds headings.
type RowWindow struct {
	Start int
	End   int
}

// NewRowWindow returns the window of chunkSize rows beginning at startRow.
func NewRowWindow(startRow, chunkSize int) RowWindow {
	var w RowWindow
	w.SetWindow(startRow, chunkSize)
	return w
}

// SetWindow moves the window to [startRow, startRow+chunkSize-1].
// Inputs are not validated.
func (w *RowWindow) SetWindow(startRow, chunkSize int) {
	w.Start = startRow
	w.End = startRow + chunkSize - 1
}

// ShouldRead reports whether a cell at row belongs to the window. The column
// and sheet are accepted for decoder read filters and ignored.
func (w RowWindow) ShouldRead(_ string, row int, _ string) bool {
	return w.Start <= row && row <= w.End
}
