package plugins

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/form"
	"github.com/dtg01100/touch-settings/internal/schema"
)

type Mode bool

func (m Mode) String() string {
	if m {
		return "True"
	}
	return "False"
}

type Motion struct {
	Speed int     `flat:"speed" yaml:"speed"`
	Ratio float64 `flat:"ratio" yaml:"ratio"`
}

type testRecord struct {
	Motion `flat:",squash" yaml:"motion"`
	Name   string   `flat:"name" yaml:"name"`
	Mode   Mode     `flat:"mode" yaml:"mode"`
	IDs    []int    `flat:"ids" yaml:"ids"`
	Notes  []string `flat:"-" yaml:"notes"`
}

func defaultRecord() testRecord {
	return testRecord{Motion: Motion{Speed: 10, Ratio: 0.5}, Name: "arm", Mode: true, IDs: []int{1, 2}}
}

type memService struct {
	record  testRecord
	loadErr error
	saveErr error
	saves   int
}

func (m *memService) Load(context.Context) (testRecord, error) {
	if m.loadErr != nil {
		return testRecord{}, m.loadErr
	}
	return m.record, nil
}

func (m *memService) Save(_ context.Context, r testRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.record = r
	return nil
}

func testSpecs() []TabSpec {
	return []TabSpec{
		SchemaTab("General", schema.NewGroup("Motion",
			schema.NewField("speed", "Speed", schema.WidgetSpinBox, schema.WithRange(0, 100), schema.WithDefault(10)),
			schema.NewField("ratio", "Ratio", schema.WidgetDoubleSpinBox, schema.WithRange(0, 1), schema.WithStep(0.1), schema.WithDefault(0.5)),
			schema.NewField("name", "Name", schema.WidgetLineEdit, schema.WithDefault("arm")),
			schema.NewField("mode", "Mode", schema.WidgetCombo, schema.WithChoices("True", "False"), schema.WithDefault("True")),
			schema.NewField("ids", "IDs", schema.WidgetIntList, schema.WithRange(0, 9)),
		)),
	}
}

func newTestBase(t *testing.T, svc *memService, opts ...Option[testRecord]) *Base[testRecord] {
	t.Helper()
	b, err := NewBase(Info{Name: "test", Title: "Test"}, svc, StructMapper[testRecord]{}, defaultRecord, testSpecs(), opts...)
	require.NoError(t, err)
	return b
}

func TestStructMapper_ToFlat(t *testing.T) {
	got, err := StructMapper[testRecord]{}.ToFlat(defaultRecord())
	require.NoError(t, err)

	want := schema.Values{"speed": 10.0, "ratio": 0.5, "name": "arm", "mode": "True", "ids": []int{1, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToFlat() mismatch (-want +got):\n%s", diff)
	}
}

func TestStructMapper_FromFlatKeepsBase(t *testing.T) {
	base := defaultRecord()
	base.Notes = []string{"keep"}

	got, err := StructMapper[testRecord]{}.FromFlat(schema.Values{
		"speed":   42.0,
		"mode":    "False",
		"ids":     []int{7},
		"unknown": 1,
	}, base)
	require.NoError(t, err)

	assert.Equal(t, 42, got.Speed)
	assert.Equal(t, 0.5, got.Ratio, "missing keys keep the base value")
	assert.Equal(t, Mode(false), got.Mode)
	assert.Equal(t, []int{7}, got.IDs)
	assert.Equal(t, []string{"keep"}, got.Notes)
	assert.Equal(t, []int{1, 2}, base.IDs, "base must not be modified")
}

func TestBase_LoadAppliesRecord(t *testing.T) {
	svc := &memService{record: testRecord{Motion: Motion{Speed: 77, Ratio: 0.2}, Name: "HAL", IDs: []int{3}}}
	var after []testRecord
	b := newTestBase(t, svc, WithAfterLoad(func(r testRecord) { after = append(after, r) }))

	require.NoError(t, b.Load(context.Background()))

	values := b.View().Values()
	assert.Equal(t, 77.0, values["speed"])
	assert.Equal(t, "HAL", values["name"])
	assert.Equal(t, "False", values["mode"])
	assert.Len(t, after, 1)
	assert.Equal(t, "HAL", b.Current().Name)
}

func TestBase_LoadCmd(t *testing.T) {
	svc := &memService{record: testRecord{Motion: Motion{Speed: 33}, Name: "async"}}
	b := newTestBase(t, svc)

	cmd := b.LoadCmd(context.Background())
	assert.Equal(t, "arm", b.View().Values()["name"])
	b.View().Update(cmd())

	assert.Equal(t, "async", b.View().Values()["name"])
	assert.Equal(t, "async", b.Current().Name)
}

func TestBase_LoadFailureIsReported(t *testing.T) {
	svc := &memService{loadErr: apperrors.NewRepositoryError("load", "test", errors.New("disk gone"))}
	b := newTestBase(t, svc)

	err := b.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrRepository)
	status, isErr := b.View().Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "disk gone")
	assert.Equal(t, defaultRecord(), b.Current(), "merge base falls back to defaults")
}

func TestBase_SaveMergesOntoCurrent(t *testing.T) {
	svc := &memService{record: testRecord{Motion: Motion{Speed: 5}, Name: "x", Notes: []string{"outside the form"}}}
	b := newTestBase(t, svc, WithBeforeSave(func(r testRecord) (testRecord, error) {
		r.Notes = append(r.Notes, "hooked")
		return r, nil
	}))
	require.NoError(t, b.Load(context.Background()))

	b.View().SetValues(schema.Values{"speed": 55})
	cmd := b.View().Save()
	require.NotNil(t, cmd)
	msg := cmd()
	b.View().Update(msg)

	assert.Equal(t, form.SavedMsg{Component: "Test"}, msg)
	assert.Equal(t, 1, svc.saves)
	assert.Equal(t, 55, svc.record.Speed)
	assert.Equal(t, []string{"outside the form", "hooked"}, svc.record.Notes)
	status, _ := b.View().Status()
	assert.Equal(t, "Saved", status)
}

func TestBase_SaveFailure(t *testing.T) {
	svc := &memService{record: defaultRecord(), saveErr: errors.New("read-only")}
	b := newTestBase(t, svc)

	msg := b.View().Save()()
	b.View().Update(msg)

	status, isErr := b.View().Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "read-only")
}

func TestBase_BeforeSaveErrorBlocksSave(t *testing.T) {
	svc := &memService{record: defaultRecord()}
	b := newTestBase(t, svc, WithBeforeSave(func(r testRecord) (testRecord, error) {
		return r, apperrors.NewValidationError("speed", "too fast")
	}))

	cmd := b.View().Save()
	assert.Nil(t, cmd)
	assert.Zero(t, svc.saves)
}

func TestBase_CommandLineOperations(t *testing.T) {
	ctx := context.Background()
	svc := &memService{record: testRecord{Motion: Motion{Speed: 1}, Name: "a", Notes: []string{"n"}}}
	b := newTestBase(t, svc)

	values, err := b.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, values["speed"])

	require.NoError(t, b.Apply(ctx, schema.Values{"name": "b"}))
	assert.Equal(t, "b", svc.record.Name)
	assert.Equal(t, 1, svc.record.Speed)
	assert.Equal(t, []string{"n"}, svc.record.Notes)

	exported, err := b.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.record, exported)

	require.NoError(t, b.Reset(ctx))
	assert.Equal(t, defaultRecord(), svc.record)
}

func TestBase_Import(t *testing.T) {
	ctx := context.Background()
	svc := &memService{record: testRecord{Motion: Motion{Speed: 1, Ratio: 0.3}, Name: "a"}}
	b := newTestBase(t, svc)

	err := b.Import(ctx, func(v any) error {
		return yaml.Unmarshal([]byte("motion:\n  speed: 9\nname: imported\n"), v)
	})
	require.NoError(t, err)
	assert.Equal(t, 9, svc.record.Speed)
	assert.Equal(t, 0.3, svc.record.Ratio)
	assert.Equal(t, "imported", b.Current().Name)

	err = b.Import(ctx, func(v any) error { return errors.New("bad document") })
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewBase_RejectsBadSchema(t *testing.T) {
	specs := []TabSpec{
		SchemaTab("A", schema.NewGroup("G", schema.NewField("k", "K", schema.WidgetSpinBox))),
		SchemaTab("B", schema.NewGroup("H", schema.NewField("k", "K", schema.WidgetSpinBox))),
	}
	_, err := NewBase(Info{Name: "bad"}, &memService{}, StructMapper[testRecord]{}, defaultRecord, specs)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
}

type rawWidget struct{}

func (rawWidget) Update(tea.Msg) tea.Cmd { return nil }
func (rawWidget) View() string           { return "raw" }

func TestBase_RawTabs(t *testing.T) {
	specs := append(testSpecs(), RawTab("Extra", rawWidget{}))
	b, err := NewBase(Info{Name: "test", Title: "Test"}, &memService{}, StructMapper[testRecord]{}, defaultRecord, specs)
	require.NoError(t, err)

	assert.Equal(t, []string{"General", "Extra"}, b.View().Tabs())
	require.Len(t, b.Tabs(), 1, "raw tabs are not part of the schema")
	assert.Equal(t, "General", b.Tabs()[0].Title)
}

func TestRegistry(t *testing.T) {
	a := newTestBase(t, &memService{})
	r, err := NewRegistry(a)
	require.NoError(t, err)

	got, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, apperrors.ErrUnknownDomain)
	assert.ErrorIs(t, r.Register(a), apperrors.ErrConfigInvalid)
	assert.Equal(t, []string{"test"}, r.Names())
	assert.Len(t, r.All(), 1)
}
