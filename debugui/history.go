package debugui

// Command is an undoable edit.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History manages undo/redo stacks
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes cmd and pushes it to the undo stack, dropping the oldest entry
// past maxDepth.
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.push(cmd)
}

// push records an already applied command.
func (h *History) push(cmd Command) {
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

// last is the most recent undoable command, or nil.
func (h *History) last() Command {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

func (h *History) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return true
}

func (h *History) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// adjustCommand sets one field from old to new. Held keys extend the same
// command instead of stacking one per frame.
type adjustCommand struct {
	field     Field
	component int
	old, new  Value
}

func (c *adjustCommand) Execute() { c.field.Set(c.new) }
func (c *adjustCommand) Undo()    { c.field.Set(c.old) }
func (c *adjustCommand) Description() string {
	return "adjust " + c.field.Path()
}
