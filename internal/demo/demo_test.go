package demo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Faultbox/earthview/internal/engine/input"
)

type recorder struct {
	name     string
	calls    *[]string
	enterErr error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) log(call string) { *r.calls = append(*r.calls, r.name+"."+call) }

func (r *recorder) Enter() error {
	r.log("enter")
	return r.enterErr
}

func (r *recorder) Exit() error {
	r.log("exit")
	return nil
}

func (r *recorder) Update(float64) error {
	r.log("update")
	return nil
}

func (r *recorder) Render() error {
	r.log("render")
	return nil
}

func (r *recorder) HandleInput(input.Event) error {
	r.log("input")
	return nil
}

func (r *recorder) Resize(int, int) { r.log("resize") }

func newManager(t *testing.T, names ...string) (*Manager, *[]string) {
	t.Helper()
	calls := &[]string{}
	m := NewManager()
	for _, n := range names {
		if err := m.Register(&recorder{name: n, calls: calls}); err != nil {
			t.Fatal(err)
		}
	}
	return m, calls
}

func TestSwitchHappensOnUpdate(t *testing.T) {
	m, calls := newManager(t, "shapes", "earth")

	if err := m.Change("shapes"); err != nil {
		t.Fatal(err)
	}
	if m.Current() != nil {
		t.Fatal("Change should not switch immediately")
	}
	m.Update(0.016)
	m.Render()

	if err := m.Change("earth"); err != nil {
		t.Fatal(err)
	}
	m.Update(0.016)

	want := []string{"shapes.enter", "shapes.update", "shapes.render", "shapes.exit", "earth.enter", "earth.update"}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
	if m.Current().Name() != "earth" {
		t.Errorf("current = %s", m.Current().Name())
	}
}

func TestChangeToCurrentIsNoop(t *testing.T) {
	m, calls := newManager(t, "shapes")
	m.Change("shapes")
	m.Update(0)
	m.Change("shapes")
	m.Update(0)

	want := []string{"shapes.enter", "shapes.update", "shapes.update"}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
}

func TestChangeUnknown(t *testing.T) {
	m, _ := newManager(t, "shapes")
	if err := m.Change("mars"); err == nil {
		t.Error("expected error for unknown demo")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	m, _ := newManager(t, "earth")
	if err := m.Register(&recorder{name: "earth", calls: &[]string{}}); err == nil {
		t.Error("expected duplicate error")
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"earth"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestEnterErrorPropagates(t *testing.T) {
	calls := &[]string{}
	m := NewManager()
	boom := errors.New("no textures")
	m.Register(&recorder{name: "earth", calls: calls, enterErr: boom})
	m.Change("earth")
	if err := m.Update(0); !errors.Is(err, boom) {
		t.Errorf("Update err = %v, want wrapped %v", err, boom)
	}
}

func TestResizeForwardedOnEnter(t *testing.T) {
	m, calls := newManager(t, "shapes")
	m.Resize(800, 600)
	m.Change("shapes")
	m.Update(0)
	m.Resize(1024, 768)

	want := []string{"shapes.enter", "shapes.resize", "shapes.update", "shapes.resize"}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
}

func TestCloseExitsCurrent(t *testing.T) {
	m, calls := newManager(t, "shapes")
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	m.Change("shapes")
	m.Update(0)
	m.HandleInput(input.Event{})
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	want := []string{"shapes.enter", "shapes.update", "shapes.input", "shapes.exit"}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
	if m.Current() != nil {
		t.Error("no demo should be current after Close")
	}
}
