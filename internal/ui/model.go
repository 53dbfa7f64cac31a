package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/data/dispatcher"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/theme"
	"github.com/atomicstack/sitemap-panel/internal/ui/command"
	uistate "github.com/atomicstack/sitemap-panel/internal/ui/state"
)

var styles = theme.Default()

const (
	defaultCols   = 96
	defaultRows   = 28
	flashDuration = 150 * time.Millisecond
	infoDuration  = 5 * time.Second
)

type msgHandler func(tea.Msg) tea.Cmd

// Options wires a Model to its collaborators. Nil collaborators are
// replaced by inert defaults so the model can run without a backend.
type Options struct {
	Engine  *panel.Engine
	Watcher *backend.Watcher
	Bus     *command.Bus
	// Width and Height pin the terminal size; zero follows the window.
	Width  int
	Height int
	// TermWidth and TermHeight are the size detected at startup, used until
	// the first window size message arrives.
	TermWidth  int
	TermHeight int
}

// Model implements the Bubble Tea model that renders the panel and turns
// mouse and key input into touches.
type Model struct {
	engine     *panel.Engine
	dispatcher *dispatcher.Dispatcher
	backend    *backend.Watcher
	bus        *command.Bus

	frame   panel.Frame
	sitemap string
	loading bool
	live    bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	press    *point
	flash    panel.Rect
	flashSeq int

	palette      *uistate.Palette
	filterCursor cursor.Model

	errMsg     string
	infoMsg    string
	infoExpire time.Time
	dropped    int

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI around the engine. Whatever frame the engine
// already holds is shown immediately.
func NewModel(opts Options) *Model {
	engine := opts.Engine
	if engine == nil {
		engine = panel.NewEngine(panel.DefaultLayout(), 0)
	}
	bus := opts.Bus
	if bus == nil {
		bus = command.New(nil, 0)
	}
	m := &Model{
		engine:     engine,
		dispatcher: dispatcher.New(engine),
		backend:    opts.Watcher,
		bus:        bus,
		loading:    true,
	}
	m.width, m.height = opts.TermWidth, opts.TermHeight
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if frame, err := engine.Frame(); err == nil && frame.Identity != "" {
		m.frame = frame
		m.loading = false
	}
	c := cursor.New()
	c.Style = styles.Cursor.Copy()
	c.TextStyle = styles.Filter.Copy()
	c.SetMode(cursor.CursorStatic)
	c.Focus()
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	return waitForBackendEvent(m.backend, m.dispatcher)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(flashDoneMsg{}):      m.handleFlashDoneMsg,
		reflect.TypeOf(command.ResultMsg{}): m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

// size returns the terminal columns and the rows available to the panel,
// one row being reserved for the status line.
func (m *Model) size() (int, int) {
	cols, rows := m.width, m.height
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	return cols, rows - 1
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoDuration)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
	}
	return m.infoMsg
}

// Frame exposes the frame currently on screen.
func (m *Model) Frame() panel.Frame {
	return m.frame
}
