package camera

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

// ActionTimeout bounds a single camera request.
const ActionTimeout = 30 * time.Second

// Actions are the requests the camera settings page can send to the vision
// service. They are fire-and-forget: the page only reports whether the
// request was accepted.
type Actions interface {
	SetRawMode(ctx context.Context, enabled bool) error
	CaptureImage(ctx context.Context) error
	CalibrateCamera(ctx context.Context) error
	CalibrateRobot(ctx context.Context) error
}

// LogActions accepts every request and records it in the log. It stands in
// for the vision service when none is attached.
type LogActions struct {
	Logger *slog.Logger

	mu       sync.Mutex
	requests []string
	rawMode  bool
}

func (a *LogActions) record(name string, attrs ...any) {
	a.mu.Lock()
	a.requests = append(a.requests, name)
	a.mu.Unlock()
	l := a.Logger
	if l == nil {
		l = logging.Discard()
	}
	l.Info("camera request", append([]any{"action", name}, attrs...)...)
}

// SetRawMode implements Actions.
func (a *LogActions) SetRawMode(_ context.Context, enabled bool) error {
	a.mu.Lock()
	a.rawMode = enabled
	a.mu.Unlock()
	a.record("raw_mode", "enabled", enabled)
	return nil
}

// CaptureImage implements Actions.
func (a *LogActions) CaptureImage(context.Context) error {
	a.record("capture_image")
	return nil
}

// CalibrateCamera implements Actions.
func (a *LogActions) CalibrateCamera(context.Context) error {
	a.record("calibrate_camera")
	return nil
}

// CalibrateRobot implements Actions.
func (a *LogActions) CalibrateRobot(context.Context) error {
	a.record("calibrate_robot")
	return nil
}

// Requests returns the names of the requests received so far.
func (a *LogActions) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

// RawMode reports the last requested raw mode.
func (a *LogActions) RawMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rawMode
}

type actionDoneMsg struct {
	label string
	mode  bool
	err   error
}

type actionKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Run  key.Binding
}

var actionKeys = actionKeyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k")),
	Down: key.NewBinding(key.WithKeys("down", "j")),
	Run:  key.NewBinding(key.WithKeys("enter", " ")),
}

type action struct {
	item components.MenuItem
	// run receives the raw mode the request should leave behind.
	run func(ctx context.Context, rawMode bool) error
}

func ignoreMode(fn func(context.Context) error) func(context.Context, bool) error {
	return func(ctx context.Context, _ bool) error { return fn(ctx) }
}

// ActionsTab is the tab that sends camera requests.
type ActionsTab struct {
	menu    *components.Menu
	entries []action
	rawMode bool
	running bool
	last    string
	lastErr bool
	onDone  func(label string, err error)
}

// NewActionsTab returns the tab for a.
func NewActionsTab(a Actions) *ActionsTab {
	t := &ActionsTab{}
	t.entries = []action{
		{
			item: components.MenuItem{Label: "Raw Mode", Description: "Toggle the unprocessed camera feed", Key: "r"},
			run:  a.SetRawMode,
		},
		{
			item: components.MenuItem{Label: "Capture Image", Description: "Save a frame from the camera", Key: "c"},
			run:  ignoreMode(a.CaptureImage),
		},
		{
			item: components.MenuItem{Label: "Calibrate Camera", Description: "Run chessboard calibration", Key: "a"},
			run:  ignoreMode(a.CalibrateCamera),
		},
		{
			item: components.MenuItem{Label: "Calibrate Robot", Description: "Run camera to robot calibration", Key: "b"},
			run:  ignoreMode(a.CalibrateRobot),
		},
	}
	items := make([]components.MenuItem, len(t.entries))
	for i, e := range t.entries {
		items[i] = e.item
	}
	t.menu = components.NewMenu(items)
	return t
}

// OnDone registers fn to receive the outcome of every request.
func (t *ActionsTab) OnDone(fn func(label string, err error)) {
	t.onDone = fn
}

// RawMode reports whether raw mode was last switched on.
func (t *ActionsTab) RawMode() bool { return t.rawMode }

// Run starts the request at index i.
func (t *ActionsTab) Run(i int) tea.Cmd {
	if i < 0 || i >= len(t.entries) || t.running {
		return nil
	}
	e := t.entries[i]
	t.menu.Cursor = i
	t.running = true
	label := e.item.Label
	mode := t.rawMode
	if i == 0 {
		mode = !mode
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
		defer cancel()
		return actionDoneMsg{label: label, mode: mode, err: e.run(ctx, mode)}
	}
}

// Update implements form.RawWidget.
func (t *ActionsTab) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case actionDoneMsg:
		t.running = false
		if msg.err == nil {
			t.rawMode = msg.mode
		}
		if msg.err != nil {
			t.last = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
			t.lastErr = true
		} else {
			t.last = msg.label + " requested"
			t.lastErr = false
		}
		if t.onDone != nil {
			t.onDone(msg.label, msg.err)
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, actionKeys.Up):
			t.menu.Up()
		case key.Matches(msg, actionKeys.Down):
			t.menu.Down()
		case key.Matches(msg, actionKeys.Run):
			return t.Run(t.menu.Cursor)
		default:
			for i, e := range t.entries {
				if msg.String() == e.item.Key {
					return t.Run(i)
				}
			}
		}
	}
	return nil
}

// View implements form.RawWidget.
func (t *ActionsTab) View() string {
	var b strings.Builder
	b.WriteString(t.menu.Render())
	state := "off"
	if t.rawMode {
		state = "on"
	}
	b.WriteString("\n" + components.Styles.Subtitle.Render("Raw mode: "+state))
	switch {
	case t.running:
		b.WriteString("\n" + components.RenderInfo("Sending request..."))
	case t.last != "" && t.lastErr:
		b.WriteString("\n" + components.RenderError(t.last))
	case t.last != "":
		b.WriteString("\n" + components.RenderSuccess(t.last))
	}
	return b.String()
}
