package robot

import (
	"context"
	"errors"
	"sort"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/movement"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/schema"
)

type memDoc[T any] struct {
	rec   T
	saves int
	err   error
}

func (m *memDoc[T]) Load(context.Context) (T, error) { return m.rec, m.err }

func (m *memDoc[T]) Save(_ context.Context, rec T) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.rec = rec
	return nil
}

func newTestPlugin(t *testing.T, motion Motion) (*Plugin, *memDoc[Config], *memDoc[Calibration]) {
	t.Helper()
	cfg := &memDoc[Config]{rec: DefaultConfig()}
	calib := &memDoc[Calibration]{rec: DefaultCalibration()}
	p, err := New(NewService(cfg, calib), motion, nil)
	require.NoError(t, err)
	return p, cfg, calib
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and hands its messages to the view.
func deliver(p *Plugin, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			deliver(p, c)
		}
		return
	}
	p.View().Update(msg)
}

func TestTabs_Valid(t *testing.T) {
	require.NoError(t, schema.ValidateTabs(Tabs()...))
}

func TestMapper_KeysMatchSchema(t *testing.T) {
	flat, err := plugins.StructMapper[Settings]{}.ToFlat(Defaults())
	require.NoError(t, err)

	var got, want []string
	for k := range flat {
		got = append(got, k)
	}
	for _, tab := range Tabs() {
		for _, f := range tab.Fields() {
			want = append(want, f.Key)
		}
	}
	sort.Strings(got)
	sort.Strings(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flat keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "True", flat["offset_neg_y"])
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 8}, flat["calib_required_ids"])
	assert.Equal(t, 500.0, flat["emergency_decel"])
}

func TestMapper_FromFlat(t *testing.T) {
	base := Defaults()
	got, err := plugins.StructMapper[Settings]{}.FromFlat(schema.Values{
		"offset_pos_x":       "False",
		"safety_z_max":       750.0,
		"calib_k":            3.5,
		"calib_required_ids": []int{4, 2},
		"robot_ip":           "10.0.0.7",
	}, base)
	require.NoError(t, err)

	assert.Equal(t, Direction(false), got.PosX)
	assert.Equal(t, Direction(true), got.NegX)
	assert.Equal(t, 750, got.ZMax)
	assert.Equal(t, 3.5, got.K)
	assert.Equal(t, []int{4, 2}, got.RequiredIDs)
	assert.Equal(t, "10.0.0.7", got.RobotIP)
	assert.Equal(t, base.MovementGroups, got.MovementGroups)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 8}, base.RequiredIDs)
}

func TestPlugin_Layout(t *testing.T) {
	p, _, _ := newTestPlugin(t, nil)
	assert.Equal(t, Name, p.Name())
	assert.Equal(t, []string{"General", "Safety", "Movement Groups", "Calibration"}, p.View().Tabs())
}

func TestPlugin_LoadAndSave(t *testing.T) {
	p, cfg, calib := newTestPlugin(t, nil)
	cfg.rec.RobotIP = "10.1.1.1"
	cfg.rec.MovementGroups["HOME_POS"] = movement.MovementGroup{
		Velocity: 30, Acceleration: 40, Position: movement.StringPtr("[1, 2, 3, 4, 5, 6]"), Points: []string{},
	}
	calib.rec.ZTarget = 420

	require.NoError(t, p.Load(context.Background()))
	values := p.View().Values()
	assert.Equal(t, "10.1.1.1", values["robot_ip"])
	assert.Equal(t, 420.0, values["calib_z_target"])
	assert.Equal(t, "LOGIN_POS", p.Movement().Names()[0])
	assert.Equal(t, 30, p.Movement().Values()["HOME_POS"].Velocity)

	p.View().SetValues(schema.Values{"global_velocity": 250, "calib_min_step_mm": 0.5})
	p.Movement().Group("HOME_POS").Velocity().SetFloat(75)
	deliver(p, p.View().Save())

	assert.Equal(t, 1, cfg.saves)
	assert.Equal(t, 1, calib.saves)
	assert.Equal(t, 250, cfg.rec.GlobalVelocity)
	assert.Equal(t, 0.5, calib.rec.MinStepMM)
	assert.Equal(t, 75, cfg.rec.MovementGroups["HOME_POS"].Velocity)
	assert.Equal(t, "[1, 2, 3, 4, 5, 6]", *cfg.rec.MovementGroups["HOME_POS"].Position)
}

func TestPlugin_SaveBeforeLoadKeepsGroups(t *testing.T) {
	p, cfg, _ := newTestPlugin(t, nil)
	deliver(p, p.View().Save())
	assert.Len(t, cfg.rec.MovementGroups, len(movement.DefaultDefinitions()))
}

func TestPlugin_SaveFailureReported(t *testing.T) {
	p, _, calib := newTestPlugin(t, nil)
	calib.err = apperrors.NewRepositoryError("save", "robot calibration", errors.New("locked"))

	deliver(p, p.View().Save())
	status, isErr := p.View().Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "locked")
}

func TestMovementTab_SetCurrentAndMoveTo(t *testing.T) {
	motion := NewSimulatedMotion(movement.Position{1, 2, 3, 4, 5, 6}, nil)
	p, _, _ := newTestPlugin(t, motion)
	require.NoError(t, p.Load(context.Background()))
	tab := p.Movement()
	require.Equal(t, "LOGIN_POS", tab.Focused())

	var changed []string
	p.View().OnValueChanged(func(key string, _ any, _ string) { changed = append(changed, key) })

	cmd := tab.Update(runes("m"))
	assert.Nil(t, cmd, "no position to move to")
	status, isErr := p.View().Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "empty position")

	cmd = tab.Update(runes("c"))
	require.NotNil(t, cmd)
	deliver(p, cmd)
	assert.Equal(t, "[1.000, 2.000, 3.000, 4.000, 5.000, 6.000]", tab.Group("LOGIN_POS").Position())
	assert.Equal(t, []string{"LOGIN_POS.position"}, changed)
	status, _ = p.View().Status()
	assert.Equal(t, "Captured position for LOGIN_POS", status)

	cmd = tab.Update(runes("m"))
	require.NotNil(t, cmd)
	deliver(p, cmd)
	assert.Equal(t, 1, motion.Moves())
	status, isErr = p.View().Status()
	assert.False(t, isErr)
	assert.Equal(t, "Moved to LOGIN_POS", status)
}

func TestMovementTab_Trajectory(t *testing.T) {
	motion := NewSimulatedMotion(movement.Position{}, nil)
	p, cfg, _ := newTestPlugin(t, motion)
	cfg.rec.MovementGroups["NOZZLE CLEAN"] = movement.MovementGroup{
		Velocity: 50, Acceleration: 50, Iterations: 3,
		Points: []string{"[0, 0, 300, 180, 0, 0]", "[10, 0, 300, 180, 0, 0]"},
	}
	require.NoError(t, p.Load(context.Background()))
	tab := p.Movement()

	cmd := tab.execute("NOZZLE CLEAN")
	require.NotNil(t, cmd)
	deliver(p, cmd)
	assert.Equal(t, 6, motion.Moves())
	pos, err := motion.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, movement.Position{10, 0, 300, 180, 0, 0}, pos)

	assert.Nil(t, tab.execute("TOOL CHANGER"), "empty trajectory is rejected")
	status, isErr := p.View().Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "trajectory has no points")

	assert.Nil(t, tab.moveTo("NOZZLE CLEAN"), "multi-position move needs a selected point")
	tab.Group("NOZZLE CLEAN").SelectPoint(0)
	deliver(p, tab.moveTo("NOZZLE CLEAN"))
	pos, _ = motion.CurrentPosition(context.Background())
	assert.Equal(t, movement.Position{0, 0, 300, 180, 0, 0}, pos)
}

func TestMovementTab_SetCurrentAppendsPoint(t *testing.T) {
	motion := NewSimulatedMotion(movement.Position{5, 5, 5, 0, 0, 0}, nil)
	p, _, _ := newTestPlugin(t, motion)
	require.NoError(t, p.Load(context.Background()))
	tab := p.Movement()

	deliver(p, tab.setCurrent("SLOT 0 PICKUP"))
	g := tab.Group("SLOT 0 PICKUP")
	assert.Equal(t, []string{"[5.000, 5.000, 5.000, 0.000, 0.000, 0.000]"}, g.Points())
	assert.Equal(t, 0, g.SelectedPoint())
}

func TestSimulatedMotion(t *testing.T) {
	ctx := context.Background()
	m := NewSimulatedMotion(movement.Position{}, nil)

	assert.Error(t, m.ExecuteTrajectory(ctx, "G", nil, 10, 10, 1))
	assert.Error(t, m.MoveTo(ctx, "G", movement.Position{}, 0, 10))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.MoveTo(cancelled, "G", movement.Position{}, 10, 10), context.Canceled)
	assert.Zero(t, m.Moves())
}

func TestSplitService(t *testing.T) {
	ctx := context.Background()
	cfg := &memDoc[Config]{rec: DefaultConfig()}
	calib := &memDoc[Calibration]{rec: DefaultCalibration()}
	svc := NewService(cfg, calib)

	rec, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), rec)

	calib.err = errors.New("missing")
	_, err = svc.Load(ctx)
	assert.Error(t, err)

	calib.err = nil
	rec.RobotIP = "1.2.3.4"
	rec.ZTarget = 10
	require.NoError(t, svc.Save(ctx, rec))
	assert.Equal(t, "1.2.3.4", cfg.rec.RobotIP)
	assert.Equal(t, 10, calib.rec.ZTarget)
}
