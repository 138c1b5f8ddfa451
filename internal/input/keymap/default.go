package keymap

// DefaultBindings is the global Emacs keymap.
var DefaultBindings = []Binding{
	// Motion
	{Keys: "C-f", Action: "cursor.forwardChar", Description: "Move forward one character"},
	{Keys: "<right>", Action: "cursor.forwardChar"},
	{Keys: "C-b", Action: "cursor.backwardChar", Description: "Move backward one character"},
	{Keys: "<left>", Action: "cursor.backwardChar"},
	{Keys: "C-n", Action: "cursor.nextLine", Description: "Move to the next line"},
	{Keys: "<down>", Action: "cursor.nextLine"},
	{Keys: "C-p", Action: "cursor.previousLine", Description: "Move to the previous line"},
	{Keys: "<up>", Action: "cursor.previousLine"},
	{Keys: "C-a", Action: "cursor.lineBegin", Description: "Move to the beginning of the line"},
	{Keys: "<home>", Action: "cursor.lineBegin"},
	{Keys: "C-e", Action: "cursor.lineEnd", Description: "Move to the end of the line"},
	{Keys: "<end>", Action: "cursor.lineEnd"},
	{Keys: "M-f", Action: "cursor.wordForward", Description: "Move forward one word"},
	{Keys: "M-b", Action: "cursor.wordBackward", Description: "Move backward one word"},
	{Keys: "M-<", Action: "cursor.bufferBegin", Description: "Move to the beginning of the buffer"},
	{Keys: "M->", Action: "cursor.bufferEnd", Description: "Move to the end of the buffer"},
	{Keys: "M-g g", Action: "cursor.gotoLine", Description: "Go to a line number"},

	// View
	{Keys: "C-v", Action: "view.pageDown", Description: "Scroll forward one screen"},
	{Keys: "<next>", Action: "view.pageDown"},
	{Keys: "M-v", Action: "view.pageUp", Description: "Scroll backward one screen"},
	{Keys: "<prior>", Action: "view.pageUp"},
	{Keys: "C-l", Action: "view.recenter", Description: "Center the point line"},

	// Editing
	{Keys: "RET", Action: "editor.newline", Description: "Insert a newline"},
	{Keys: "TAB", Action: "editor.insertTab"},
	{Keys: "C-o", Action: "editor.openLine", Description: "Insert a newline after the point"},
	{Keys: "C-d", Action: "editor.deleteChar", Description: "Delete the next character"},
	{Keys: "<delete>", Action: "editor.deleteChar"},
	{Keys: "DEL", Action: "editor.deleteBackward", Description: "Delete the previous character"},
	{Keys: "C-k", Action: "editor.killLine", Description: "Kill to the end of the line"},
	{Keys: "C-y", Action: "editor.yank", Description: "Insert the last killed text"},
	{Keys: "C-SPC", Action: "editor.setMark", Description: "Set the mark at the point"},
	{Keys: "C-@", Action: "editor.setMark"},
	{Keys: "C-w", Action: "editor.killRegion", Description: "Kill the region"},
	{Keys: "M-w", Action: "editor.copyRegion", Description: "Copy the region"},
	{Keys: "C-x C-x", Action: "editor.exchangePointAndMark"},
	{Keys: "C-_", Action: "editor.undo", Description: "Undo the last change group"},
	{Keys: "C-/", Action: "editor.undo"},
	{Keys: "C-x u", Action: "editor.undo"},
	{Keys: "M-_", Action: "editor.redo", Description: "Redo the last undone group"},
	{Keys: "C-q", Action: "editor.quotedInsert", Description: "Insert the next key literally"},
	{Keys: "M-x", Action: "editor.executeCommand", Description: "Run a command by name"},

	// Files
	{Keys: "C-x C-s", Action: "file.save", Description: "Save the buffer"},
	{Keys: "C-x C-w", Action: "file.writeFile", Description: "Write the buffer to a file"},
	{Keys: "C-x C-f", Action: "file.findFile", Description: "Open a file"},
	{Keys: "C-x RET f", Action: "file.setCharset", Description: "Set the file charset"},
	{Keys: "C-x RET e", Action: "file.setEOL", Description: "Set the line ending convention"},
	{Keys: "C-x C-q", Action: "file.toggleReadOnly", Description: "Toggle read-only mode"},

	// Buffers
	{Keys: "C-x b", Action: "buffer.switch", Description: "Select another buffer"},
	{Keys: "C-x k", Action: "buffer.kill", Description: "Close a buffer"},

	// Search
	{Keys: "C-s", Action: "search.isearchForward", Description: "Incremental search forward"},
	{Keys: "C-r", Action: "search.isearchBackward", Description: "Incremental search backward"},
	{Keys: "M-%", Action: "search.queryReplace", Description: "Replace with confirmation"},

	// Keyboard macros
	{Keys: "C-x (", Action: "macro.start", Description: "Start defining a keyboard macro"},
	{Keys: "C-x )", Action: "macro.end", Description: "Finish the keyboard macro"},
	{Keys: "C-x e", Action: "macro.call", Description: "Run the last keyboard macro"},

	// Application
	{Keys: "C-g", Action: "app.cancel", Description: "Cancel the current command"},
	{Keys: "C-x C-c", Action: "app.quit", Description: "Exit the editor"},
}

// Default builds the global keymap.
func Default() *Keymap {
	km := New("global")
	for _, b := range DefaultBindings {
		if err := km.Add(b); err != nil {
			panic(err)
		}
	}
	return km
}
