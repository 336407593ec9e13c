package editor

// Renderer is asked to refresh the preview after every committed change.
type Renderer interface {
	RequestRender(text string)
}

// Persister receives the autosave requests that follow the dirty state.
type Persister interface {
	// ScheduleSave is called after every edit that leaves the document dirty.
	ScheduleSave(text string)
	// CancelScheduledSave is called when the document is clean again.
	CancelScheduledSave()
	// ClearSnapshot is called when a dirty document returns to its clean
	// baseline.
	ClearSnapshot()
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(text string)

// RequestRender calls f.
func (f RenderFunc) RequestRender(text string) {
	f(text)
}

type nopRenderer struct{}

func (nopRenderer) RequestRender(string) {}

type nopPersister struct{}

func (nopPersister) ScheduleSave(string)  {}
func (nopPersister) CancelScheduledSave() {}
func (nopPersister) ClearSnapshot()       {}
