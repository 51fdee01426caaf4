package widgets

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func TestIntList_SetIDs(t *testing.T) {
	tests := []struct {
		name   string
		source any
		want   []int
	}{
		{"comma string", "5, 15, 25", []int{5, 15, 25}},
		{"drops non-numeric", "1,abc,3", []int{1, 3}},
		{"semicolons and spaces", " 4 ;5  6 ", []int{4, 5, 6}},
		{"bracketed", "[0, 1, 2]", []int{0, 1, 2}},
		{"decimal not octal", "010", []int{10}},
		{"keeps order and duplicates", "3,1,3", []int{3, 1, 3}},
		{"drops out of range", "-1,0,255,256", []int{0, 255}},
		{"int slice", []int{8, 9}, []int{8, 9}},
		{"float slice", []float64{1, 2.5, 3}, []int{1, 3}},
		{"any slice", []any{1, "2", 3.0, "x", true}, []int{1, 2, 3, 1}},
		{"empty string", "", []int{}},
		{"nil", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIntList("ids", 0, 255)
			l.SetIDs(tt.source)
			if diff := cmp.Diff(tt.want, l.IDs()); diff != "" {
				t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(l.IDs(), l.Value()); diff != "" {
				t.Errorf("Value() differs from IDs():\n%s", diff)
			}
		})
	}
}

func TestIntList_SetIDsIsSilent(t *testing.T) {
	var rec recorder
	l := NewIntList("ids", 0, 255)
	l.OnChange(rec.record)
	l.SetIDs("1,2,3")
	l.SetValue([]int{4})

	if len(rec.values) != 0 {
		t.Errorf("SetIDs emitted %d events", len(rec.values))
	}
}

func TestIntList_Mutations(t *testing.T) {
	var rec recorder
	l := NewIntList("ids", 0, 10)
	l.OnChange(rec.record)

	l.Append(3)
	l.Append(42)
	if err := l.Replace(0, 7); err != nil {
		t.Fatalf("Replace(0, 7) error: %v", err)
	}
	if err := l.Replace(5, 1); err == nil {
		t.Error("Replace(5, 1) should fail for an out-of-range index")
	}

	want := [][]int{{3}, {3, 10}, {7, 10}}
	if len(rec.values) != len(want) {
		t.Fatalf("got %d emissions, want %d", len(rec.values), len(want))
	}
	for i, w := range want {
		if diff := cmp.Diff(w, rec.values[i]); diff != "" {
			t.Errorf("emission %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	l.Select(-1)
	l.Remove()
	if len(rec.values) != 3 {
		t.Error("Remove without selection should not emit")
	}

	l.Select(0)
	l.Remove()
	if diff := cmp.Diff([]int{10}, l.IDs()); diff != "" {
		t.Errorf("after Remove mismatch (-want +got):\n%s", diff)
	}
	if l.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", l.Selected())
	}
	if diff := cmp.Diff([]int{10}, rec.values[len(rec.values)-1]); diff != "" {
		t.Errorf("Remove emission mismatch (-want +got):\n%s", diff)
	}
}

func TestIntList_EmittedListIsACopy(t *testing.T) {
	var got []int
	l := NewIntList("ids", 0, 10)
	l.OnChange(func(_ string, v any) { got = v.([]int) })

	l.Append(1)
	got[0] = 9
	if l.IDs()[0] != 1 {
		t.Error("handler mutated the list through the emitted slice")
	}
}

func TestIntList_KeyboardEditing(t *testing.T) {
	var rec recorder
	l := NewIntList("ids", 0, 255)
	l.SetIDs("1,2")
	l.OnChange(rec.record)

	l.Update(runeKey("a"))
	if !l.Capturing() {
		t.Fatal("Capturing() should be true after pressing a")
	}
	for i := 0; i < 5; i++ {
		l.Update(runeKey("+"))
	}
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if l.Capturing() {
		t.Error("Capturing() should be false after enter")
	}
	if diff := cmp.Diff([]int{1, 2, 5}, l.IDs()); diff != "" {
		t.Errorf("after add mismatch (-want +got):\n%s", diff)
	}

	l.Update(tea.KeyMsg{Type: tea.KeyLeft})
	l.Update(runeKey("e"))
	l.Update(runeKey("-"))
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if diff := cmp.Diff([]int{1, 1, 5}, l.IDs()); diff != "" {
		t.Errorf("after edit mismatch (-want +got):\n%s", diff)
	}

	l.Update(runeKey("a"))
	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.Capturing() || len(l.IDs()) != 3 {
		t.Error("esc should close the entry without changing the list")
	}

	l.Update(runeKey("d"))
	if diff := cmp.Diff([]int{1, 5}, l.IDs()); diff != "" {
		t.Errorf("after remove mismatch (-want +got):\n%s", diff)
	}
	if len(rec.values) != 3 {
		t.Errorf("got %d emissions, want 3", len(rec.values))
	}
}
