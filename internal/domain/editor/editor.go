package editor

import (
	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
)

// Editor hands out one editing session at a time and commits the outgoing
// session whenever focus moves to another photo. Like Session it belongs
// to a single goroutine.
type Editor struct {
	viewport layout.Size
	style    layout.Style
	active   *Session
}

// New builds an editor for the given viewport and print style.
func New(viewport layout.Size, style layout.Style) *Editor {
	return &Editor{viewport: viewport, style: style}
}

// Open switches the editor to the given photo. The previous session, if
// any, is committed first so navigating away never loses an edit. The new
// session starts from the photo's stored transform, or from the computed
// default when it has none.
func (e *Editor) Open(p *photo.Photo) *Session {
	if e.active != nil {
		e.active.Commit()
	}
	e.active = newSession(p, e.viewport, e.style)
	return e.active
}

// Close commits and drops the active session.
func (e *Editor) Close() {
	if e.active == nil {
		return
	}
	e.active.Commit()
	e.active = nil
}

// Active returns the current session, or nil when none is open.
func (e *Editor) Active() *Session { return e.active }

// Style returns the print style sessions are opened with.
func (e *Editor) Style() layout.Style { return e.style }

// Viewport returns the editing viewport sessions are opened with.
func (e *Editor) Viewport() layout.Size { return e.viewport }
