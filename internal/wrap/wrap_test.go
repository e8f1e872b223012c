package wrap

import (
	"context"
	"errors"
	"testing"

	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// fakeSpawner records lifecycle calls for assertions.
type fakeSpawner struct {
	cfg spawner.Config

	started     bool
	stopped     bool
	stopForced  bool
	cleared     int
	loaded      spawner.State
	attrs       map[string]any
	pollStatus  *spawner.ExitStatus
	progressErr error
}

func (f *fakeSpawner) Start(context.Context) (string, error) {
	f.started = true
	return "http://127.0.0.1:9000", nil
}

func (f *fakeSpawner) Stop(_ context.Context, force bool) error {
	f.stopped = true
	f.stopForced = force
	return nil
}

func (f *fakeSpawner) Poll(context.Context) (*spawner.ExitStatus, error) {
	return f.pollStatus, nil
}

func (f *fakeSpawner) GetState() spawner.State {
	return spawner.State{"pid": 4242}
}

func (f *fakeSpawner) LoadState(state spawner.State) error {
	f.loaded = state
	return nil
}

func (f *fakeSpawner) ClearState() { f.cleared++ }

func (f *fakeSpawner) SetAttr(name string, value any) bool {
	if f.attrs == nil {
		f.attrs = make(map[string]any)
	}
	if name == "unknown_attr" {
		return false
	}
	f.attrs[name] = value
	return true
}

func newTestRegistry(t *testing.T, last **fakeSpawner) *spawner.Registry {
	t.Helper()
	registry := spawner.NewRegistry()
	if err := registry.Register("fake", func(_ spawner.Session, cfg spawner.Config) (spawner.Spawner, error) {
		f := &fakeSpawner{cfg: cfg}
		*last = f
		return f, nil
	}); err != nil {
		t.Fatalf("register fake: %v", err)
	}
	if err := registry.Register("broken", func(spawner.Session, spawner.Config) (spawner.Spawner, error) {
		return nil, errors.New("boom")
	}); err != nil {
		t.Fatalf("register broken: %v", err)
	}
	return registry
}

func TestConstructChildIdempotent(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{User: "ada"}, "fake", spawner.Config{"port": 9000})

	first, err := proxy.ConstructChild()
	if err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}
	second, err := proxy.ConstructChild()
	if err != nil {
		t.Fatalf("ConstructChild (repeat) error: %v", err)
	}
	if first != second {
		t.Fatalf("expected repeated construction to return the same child")
	}
	if last.cleared != 1 {
		t.Fatalf("expected exactly one ClearState on the fresh child, got %d", last.cleared)
	}
}

func TestConstructChildReplaysCachedState(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)
	proxy.childState = spawner.State{"pid": 77}

	if _, err := proxy.ConstructChild(); err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}
	if last.loaded.Int("pid") != 77 {
		t.Fatalf("expected cached state replayed into child, got %v", last.loaded)
	}
}

func TestConstructChildPropagatesFactoryFailure(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "broken", nil)

	if _, err := proxy.ConstructChild(); err == nil {
		t.Fatalf("expected factory failure to propagate")
	}
	if proxy.Child() != nil {
		t.Fatalf("expected no child after failed construction")
	}
}

func TestConstructChildUnknownID(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "nope", nil)

	_, err := proxy.ConstructChild()
	if !errors.Is(err, spawner.ErrUnknownSpawner) {
		t.Fatalf("expected ErrUnknownSpawner, got %v", err)
	}
}

func TestStartConstructsAndForwards(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)

	url, err := proxy.Start(context.Background())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if url != "http://127.0.0.1:9000" {
		t.Fatalf("expected child start URL, got %q", url)
	}
	if !last.started {
		t.Fatalf("expected child Start to be called")
	}
}

func TestStopWithoutChildIsNoOp(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)

	if err := proxy.Stop(context.Background(), false); err != nil {
		t.Fatalf("Stop without child: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no child to be constructed by Stop")
	}
}

func TestPollWithoutChildReportsStopped(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)

	status, err := proxy.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if status == nil || status.Code != 1 {
		t.Fatalf("expected immediate stopped status, got %v", status)
	}
}

func TestPollForwardsToChild(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)
	if _, err := proxy.ConstructChild(); err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}
	last.pollStatus = nil // still running

	status, err := proxy.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if status != nil {
		t.Fatalf("expected running child to poll nil, got %v", status)
	}
}

func TestProgressWithoutChild(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)

	if _, err := proxy.Progress(context.Background()); !errors.Is(err, ErrNoChild) {
		t.Fatalf("expected ErrNoChild, got %v", err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", spawner.Config{"port": 9000})
	if _, err := proxy.ConstructChild(); err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}

	saved := proxy.GetState()
	if saved.Map("child_state") == nil {
		t.Fatalf("expected child state snapshot in blob, got %v", saved)
	}

	proxy.ClearState()
	if proxy.Child() != nil {
		t.Fatalf("expected ClearState to drop the child")
	}
	if last.cleared != 2 {
		t.Fatalf("expected child ClearState on proxy clear, got %d calls", last.cleared)
	}

	if err := proxy.SetDescriptor("fake", spawner.Config{"port": 9000}); err != nil {
		t.Fatalf("SetDescriptor error: %v", err)
	}
	if err := proxy.LoadState(saved); err != nil {
		t.Fatalf("LoadState error: %v", err)
	}
	if proxy.Child() == nil {
		t.Fatalf("expected LoadState to eagerly reconstruct the child")
	}
	if last.loaded.Int("pid") != 4242 {
		t.Fatalf("expected reattached child state, got %v", last.loaded)
	}
	if proxy.ChildConfig()["port"] != 9000 {
		t.Fatalf("expected bundle restored from blob, got %v", proxy.ChildConfig())
	}
}

func TestSetDescriptorRefusedWhileChildLive(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", nil)
	if _, err := proxy.ConstructChild(); err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}

	if err := proxy.SetDescriptor("broken", nil); err == nil {
		t.Fatalf("expected descriptor change with live child to be refused")
	}
	if proxy.ChildID() != "fake" {
		t.Fatalf("expected descriptor unchanged, got %q", proxy.ChildID())
	}

	proxy.ClearState()
	if err := proxy.SetDescriptor("broken", nil); err != nil {
		t.Fatalf("expected descriptor change after clear, got %v", err)
	}
}

func TestSetAttrPushesOneWay(t *testing.T) {
	var last *fakeSpawner
	registry := newTestRegistry(t, &last)
	proxy := New(registry, spawner.Session{}, "fake", spawner.Config{"port": 9000})

	// Recorded before construction, replayed into the new child.
	if pushed := proxy.SetAttr("start_timeout", 30); pushed {
		t.Fatalf("expected no push before child exists")
	}
	if _, err := proxy.ConstructChild(); err != nil {
		t.Fatalf("ConstructChild error: %v", err)
	}
	if last.attrs["start_timeout"] != 30 {
		t.Fatalf("expected recorded attr replayed on construction, got %v", last.attrs)
	}

	// Bundle-owned names never propagate.
	if pushed := proxy.SetAttr("port", 1234); pushed {
		t.Fatalf("expected bundle-owned attr push to be refused")
	}
	if _, ok := last.attrs["port"]; ok {
		t.Fatalf("expected bundle-owned attr to stay out of the child")
	}

	// Names the child does not recognize report false.
	if pushed := proxy.SetAttr("unknown_attr", 1); pushed {
		t.Fatalf("expected unrecognized attr push to report false")
	}
}
