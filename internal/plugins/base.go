package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/form"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/schema"
)

// SaveTimeout bounds a save started from the form.
const SaveTimeout = 10 * time.Second

// Info names a plugin.
type Info struct {
	Name        string
	Title       string
	Description string
}

// Option configures a Base.
type Option[T any] func(*Base[T])

// WithLogger sets the plugin logger.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(b *Base[T]) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithAfterLoad registers fn to run on the UI loop after a record was
// applied to the form. Domains use it for data outside the flat map.
func WithAfterLoad[T any](fn func(T)) Option[T] {
	return func(b *Base[T]) {
		b.afterLoad = append(b.afterLoad, fn)
	}
}

// WithBeforeSave registers fn to adjust the merged record of a form save
// before it reaches the service.
func WithBeforeSave[T any](fn func(T) (T, error)) Option[T] {
	return func(b *Base[T]) {
		b.beforeSave = append(b.beforeSave, fn)
	}
}

// Base implements Plugin for a record type T.
type Base[T any] struct {
	info     Info
	specs    []TabSpec
	service  Service[T]
	mapper   Mapper[T]
	defaults func() T
	logger   *slog.Logger
	view     *form.SettingsView

	afterLoad  []func(T)
	beforeSave []func(T) (T, error)

	mu      sync.Mutex
	current T
	loaded  bool
}

// NewBase builds the plugin and its form.
func NewBase[T any](info Info, svc Service[T], mapper Mapper[T], defaults func() T, specs []TabSpec, opts ...Option[T]) (*Base[T], error) {
	b := &Base[T]{
		info:     info,
		specs:    specs,
		service:  svc,
		mapper:   mapper,
		defaults: defaults,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("plugin", info.Name)

	if err := schema.ValidateTabs(b.Tabs()...); err != nil {
		return nil, fmt.Errorf("%s schema: %w", info.Name, err)
	}

	b.view = form.NewSettingsView(info.Title, form.WithMapper(b.flatten), form.WithLogger(b.logger))
	for _, spec := range specs {
		if spec.Raw != nil {
			b.view.AddRawTab(spec.Title, spec.Raw)
			continue
		}
		if err := b.view.AddTab(spec.Title, spec.Groups...); err != nil {
			return nil, fmt.Errorf("%s tab %q: %w", info.Name, spec.Title, err)
		}
	}
	b.view.OnValueChanged(func(key string, value any, component string) {
		b.logger.Debug("value changed", "key", key, "value", value, "component", component)
	})
	b.view.OnSave(b.saveRequested)
	b.view.OnLoaded(func(model any) {
		if rec, ok := model.(T); ok {
			b.loadedRecord(rec)
		}
	})
	return b, nil
}

// Name implements Plugin.
func (b *Base[T]) Name() string { return b.info.Name }

// Title implements Plugin.
func (b *Base[T]) Title() string { return b.info.Title }

// Description implements Plugin.
func (b *Base[T]) Description() string { return b.info.Description }

// Tabs implements Plugin.
func (b *Base[T]) Tabs() []schema.Tab {
	var tabs []schema.Tab
	for _, spec := range b.specs {
		if spec.Raw == nil {
			tabs = append(tabs, schema.Tab{Title: spec.Title, Groups: spec.Groups})
		}
	}
	return tabs
}

// View implements Plugin.
func (b *Base[T]) View() *form.SettingsView { return b.view }

// Defaults returns the default record.
func (b *Base[T]) Defaults() T { return b.defaults() }

// Current returns the merge base: the last loaded or saved record, or the
// defaults before the first load.
func (b *Base[T]) Current() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loaded {
		return b.defaults()
	}
	return b.current
}

func (b *Base[T]) setCurrent(rec T) {
	b.mu.Lock()
	b.current = rec
	b.loaded = true
	b.mu.Unlock()
}

func (b *Base[T]) flatten(model any) (schema.Values, error) {
	rec, ok := model.(T)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected model %T", b.info.Name, model)
	}
	return b.mapper.ToFlat(rec)
}

func (b *Base[T]) loadedRecord(rec T) {
	b.setCurrent(rec)
	for _, fn := range b.afterLoad {
		fn(rec)
	}
	b.logger.Info("settings loaded")
}

// Load fetches the record and applies it to the form synchronously.
func (b *Base[T]) Load(ctx context.Context) error {
	rec, err := b.service.Load(ctx)
	if err != nil {
		b.view.ReportError(err)
		return err
	}
	if err := b.view.Load(rec); err != nil {
		b.view.ReportError(err)
		return err
	}
	b.loadedRecord(rec)
	return nil
}

// LoadCmd implements Plugin.
func (b *Base[T]) LoadCmd(ctx context.Context) tea.Cmd {
	return b.view.LoadCmd(ctx, func(ctx context.Context) (any, error) {
		rec, err := b.service.Load(ctx)
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
}

// Merge applies values onto the current record and runs the before-save
// hooks.
func (b *Base[T]) Merge(values schema.Values) (T, error) {
	rec, err := b.mapper.FromFlat(values, b.Current())
	if err != nil {
		return rec, err
	}
	for _, fn := range b.beforeSave {
		if rec, err = fn(rec); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func (b *Base[T]) saveRequested(values schema.Values) tea.Cmd {
	rec, err := b.Merge(values)
	if err != nil {
		b.view.ReportError(err)
		return nil
	}
	component := b.view.Component()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
		defer cancel()
		if err := b.service.Save(ctx, rec); err != nil {
			return form.SavedMsg{Component: component, Err: err}
		}
		b.setCurrent(rec)
		b.logger.Info("settings saved", "fields", len(values))
		return form.SavedMsg{Component: component}
	}
}

// Fetch implements Plugin.
func (b *Base[T]) Fetch(ctx context.Context) (schema.Values, error) {
	rec, err := b.service.Load(ctx)
	if err != nil {
		return nil, err
	}
	return b.mapper.ToFlat(rec)
}

// Apply implements Plugin. Before-save hooks are not run: they carry
// state owned by the form.
func (b *Base[T]) Apply(ctx context.Context, values schema.Values) error {
	rec, err := b.service.Load(ctx)
	if err != nil {
		return err
	}
	rec, err = b.mapper.FromFlat(values, rec)
	if err != nil {
		return err
	}
	if err := b.service.Save(ctx, rec); err != nil {
		return err
	}
	b.setCurrent(rec)
	b.logger.Info("settings applied", "fields", len(values))
	return nil
}

// Reset implements Plugin.
func (b *Base[T]) Reset(ctx context.Context) error {
	rec := b.defaults()
	if err := b.service.Save(ctx, rec); err != nil {
		return err
	}
	b.setCurrent(rec)
	b.logger.Info("settings reset")
	return nil
}

// Export implements Plugin.
func (b *Base[T]) Export(ctx context.Context) (any, error) {
	return b.service.Load(ctx)
}

// Import implements Plugin. decode starts from the stored record.
func (b *Base[T]) Import(ctx context.Context, decode func(v any) error) error {
	rec, err := b.service.Load(ctx)
	if err != nil {
		return err
	}
	if err := decode(&rec); err != nil {
		return apperrors.NewValidationError(b.info.Name, err.Error())
	}
	if err := b.service.Save(ctx, rec); err != nil {
		return err
	}
	b.setCurrent(rec)
	b.logger.Info("settings imported")
	return nil
}
