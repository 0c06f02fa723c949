package input

// KeyListener receives key transitions
type KeyListener interface {
	OnKeyPressed(ev KeyEvent)
	OnKeyReleased(ev KeyEvent)
}

// MouseListener receives mouse button transitions
type MouseListener interface {
	OnMouseButton(ev MouseEvent)
}

// ActionListener receives actions fired by the manager's global action map
type ActionListener interface {
	OnAction(ev ActionEvent)
}

// ResizeListener receives terminal size changes
type ResizeListener interface {
	OnResize(width, height int)
}
