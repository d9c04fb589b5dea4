// Package editor owns the shared document state and the views onto it.
//
// One Editor wraps one buffer plus its undo history. Any number of views
// (tabs, splits) may be open on the same editor; each view has its own
// cursor set and viewport, while edits made through any view are visible
// to all of them. All commands are expected to run on a single goroutine,
// the UI command loop.
package editor

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/engine/history"
	"github.com/scribe-editor/scribe/internal/event"
)

// Editor is one open document: the buffer, its history, and the views
// looking at it.
type Editor struct {
	cfg  config.Config
	buf  *buffer.Buffer
	hist *history.History
	bus  *event.Bus
	log  zerolog.Logger

	mu    sync.Mutex
	views []*View
}

// New creates an editor over an empty document.
func New(cfg config.Config, logger zerolog.Logger) *Editor {
	return NewFromString("", cfg, logger)
}

// NewFromString creates an editor over the given text.
func NewFromString(text string, cfg config.Config, logger zerolog.Logger) *Editor {
	buf := buffer.NewFromString(text, buffer.WithTabWidth(cfg.Editor.TabWidth))
	return newEditor(buf, cfg, logger)
}

// NewFromReader creates an editor reading the document from r.
func NewFromReader(r io.Reader, cfg config.Config, logger zerolog.Logger) (*Editor, error) {
	buf, err := buffer.NewFromReader(r, buffer.WithTabWidth(cfg.Editor.TabWidth))
	if err != nil {
		return nil, err
	}
	return newEditor(buf, cfg, logger), nil
}

func newEditor(buf *buffer.Buffer, cfg config.Config, logger zerolog.Logger) *Editor {
	hist := history.New(cfg.History.MaxEntries)
	hist.SetCoalesceWindow(cfg.History.CoalesceWindow())

	ed := &Editor{
		cfg:  cfg,
		buf:  buf,
		hist: hist,
		bus:  event.NewBus(),
		log:  logger.With().Str("buffer", buf.ID().String()).Logger(),
	}
	ed.log.Debug().Uint32("lines", buf.LineCount()).Msg("editor created")
	return ed
}

// Buffer returns the shared document buffer.
func (ed *Editor) Buffer() *buffer.Buffer { return ed.buf }

// History returns the shared undo history.
func (ed *Editor) History() *history.History { return ed.hist }

// Bus returns the editor's event bus.
func (ed *Editor) Bus() *event.Bus { return ed.bus }

// Config returns the active configuration.
func (ed *Editor) Config() config.Config { return ed.cfg }

// Views returns the open views.
func (ed *Editor) Views() []*View {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	out := make([]*View, len(ed.views))
	copy(out, ed.views)
	return out
}

// CloseView detaches a view from the editor.
func (ed *Editor) CloseView(v *View) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	for i, w := range ed.views {
		if w == v {
			ed.views = append(ed.views[:i], ed.views[i+1:]...)
			return
		}
	}
}

// ApplyConfig swaps in a new configuration, reconfiguring the history and
// every open view. Called by the config watcher on live reload.
func (ed *Editor) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ed.mu.Lock()
	ed.cfg = cfg
	views := make([]*View, len(ed.views))
	copy(views, ed.views)
	ed.mu.Unlock()

	ed.hist.SetMaxEntries(cfg.History.MaxEntries)
	ed.hist.SetCoalesceWindow(cfg.History.CoalesceWindow())
	for _, v := range views {
		v.applyConfig(cfg)
	}

	ed.log.Info().Int("tab_width", cfg.Editor.TabWidth).Msg("configuration applied")
	ed.bus.Publish(event.New(event.TypeConfigChanged, event.ConfigChanged{}, "editor"))
	return nil
}

// notifyEdit is called by a view after it mutated the buffer. Every other
// view re-clamps its cursors against the new document.
func (ed *Editor) notifyEdit(from *View) {
	ed.mu.Lock()
	views := make([]*View, len(ed.views))
	copy(views, ed.views)
	ed.mu.Unlock()

	for _, v := range views {
		if v != from {
			v.bufferChanged()
		}
	}

	ed.bus.Publish(event.New(event.TypeBufferChanged, event.BufferChanged{
		BufferID: ed.buf.ID(),
		Revision: ed.buf.Revision(),
	}, "editor"))
}
