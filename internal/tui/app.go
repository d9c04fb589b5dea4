// Package tui runs the terminal front end: a tcell screen wired to one
// editor view, translating key and mouse input into editor commands and
// painting the visible slice of the buffer each frame.
package tui

import (
	"errors"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/editor"
	"github.com/scribe-editor/scribe/internal/engine/buffer"
	"github.com/scribe-editor/scribe/internal/renderer/viewport"
)

// ErrQuit is returned by Run on a normal user-initiated exit.
var ErrQuit = errors.New("quit")

// Options configures the application.
type Options struct {
	FilePath   string
	ConfigPath string
	ReadOnly   bool
}

// App owns the screen and the single open editor.
type App struct {
	screen tcell.Screen
	ed     *editor.Editor
	view   *editor.View
	log    zerolog.Logger

	path     string
	readOnly bool

	// revision the file on disk matches, for the modified indicator.
	savedRev buffer.Revision

	status string
}

// eventConfigReload carries a reloaded configuration from the watcher
// goroutine onto the event loop.
type eventConfigReload struct {
	tcell.EventTime
	cfg config.Config
}

// New creates the application and opens the file named in opts, or an
// empty document if none was given.
func New(opts Options, cfg config.Config, logger zerolog.Logger) (*App, error) {
	var ed *editor.Editor
	if opts.FilePath != "" {
		f, err := os.Open(opts.FilePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			// New file, start empty.
			ed = editor.NewFromString("", cfg, logger)
		} else {
			ed, err = editor.NewFromReader(f, cfg, logger)
			f.Close()
			if err != nil {
				return nil, err
			}
		}
	} else {
		ed = editor.New(cfg, logger)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	return &App{
		screen:   screen,
		ed:       ed,
		log:      logger,
		path:     opts.FilePath,
		readOnly: opts.ReadOnly,
		savedRev: ed.Buffer().Revision(),
	}, nil
}

// Editor returns the application's editor.
func (a *App) Editor() *editor.Editor { return a.ed }

// ReloadConfig posts a new configuration to the event loop. Safe to call
// from any goroutine.
func (a *App) ReloadConfig(cfg config.Config) {
	ev := &eventConfigReload{cfg: cfg}
	ev.SetEventNow()
	_ = a.screen.PostEvent(ev) // best-effort; queue may be full
}

// Run initializes the terminal and drives the event loop until quit.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()

	a.screen.EnableMouse()
	a.screen.EnablePaste()

	width, height := a.screen.Size()
	a.view = a.ed.NewView(textHeight(height), width)
	// Terminal cells are the pixel unit here.
	a.view.Viewport().SetMetrics(viewport.Metrics{LineHeight: 1, CharWidth: 1})

	for {
		a.draw()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		a.view.Resize(textHeight(h), w)
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventPaste:
		// Pasted text arrives as individual key events between the
		// start and end markers; nothing to do for the markers.
	case *eventConfigReload:
		a.applyReloadedConfig(ev.cfg)
	}
	return nil
}

func (a *App) applyReloadedConfig(cfg config.Config) {
	if err := a.ed.ApplyConfig(cfg); err != nil {
		a.log.Warn().Err(err).Msg("rejected reloaded configuration")
		a.status = "config reload rejected: " + err.Error()
		return
	}
	// ApplyConfig pushes the configured pixel metrics into every view, but
	// this shell draws in terminal cells. Re-assert the cell unit so scroll
	// offsets keep mapping one to one onto rows and columns.
	a.view.Viewport().SetMetrics(viewport.Metrics{LineHeight: 1, CharWidth: 1})
	a.status = "configuration reloaded"
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btns := ev.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		a.view.ScrollLines(-3)
	case btns&tcell.WheelDown != 0:
		a.view.ScrollLines(3)
	case btns&tcell.Button1 != 0:
		pos := a.screenToPosition(x, y)
		if ev.Modifiers()&tcell.ModAlt != 0 {
			a.view.ToggleCursorAt(pos)
		} else {
			a.view.MoveTo(pos, ev.Modifiers()&tcell.ModShift != 0)
		}
	}
}

// save writes the buffer back to the file it was opened from.
func (a *App) save() {
	if a.path == "" {
		a.status = "no file name"
		return
	}
	if a.readOnly {
		a.status = "buffer is read-only"
		return
	}
	if err := os.WriteFile(a.path, []byte(a.ed.Buffer().Text()), 0o644); err != nil {
		a.log.Error().Err(err).Str("path", a.path).Msg("save failed")
		a.status = "save failed: " + err.Error()
		return
	}
	a.savedRev = a.ed.Buffer().Revision()
	a.log.Info().Str("path", a.path).Msg("saved")
	a.status = "saved " + a.path
}

func (a *App) modified() bool {
	return a.ed.Buffer().Revision() != a.savedRev
}

// textHeight reserves the bottom row for the status bar.
func textHeight(screenHeight int) int {
	if screenHeight <= 1 {
		return 1
	}
	return screenHeight - 1
}
