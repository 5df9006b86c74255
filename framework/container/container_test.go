package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-container/framework/container"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// value returns a factory that yields v and counts its invocations.
func value(v any, calls *int) container.Factory {
	return func(...any) (any, error) {
		*calls++
		return v, nil
	}
}

func mustRegister(t *testing.T, c *container.Container, id string, deps []string, f container.Factory) {
	t.Helper()
	if err := c.Register(id, deps, f); err != nil {
		t.Fatalf("Register(%q): %v", id, err)
	}
}

// ── Basic resolution ──────────────────────────────────────────────────────────

func TestResolve_NotFound(t *testing.T) {
	c := container.New()

	_, err := c.Resolve("missing")
	if !errors.Is(err, container.ErrNotFound) {
		t.Errorf("Resolve('missing'): got %v, want ErrNotFound", err)
	}
}

func TestResolve_NoDependencies(t *testing.T) {
	c := container.New()
	calls := 0
	mustRegister(t, c, "db", nil, value("DB1", &calls))

	got, err := c.Resolve("db")
	if err != nil {
		t.Fatalf("Resolve('db'): %v", err)
	}
	if got != "DB1" {
		t.Errorf("Resolve('db'): got %v, want 'DB1'", got)
	}
}

func TestResolve_DependencyChain(t *testing.T) {
	c := container.New()
	dbCalls := 0
	mustRegister(t, c, "db", nil, value("DB1", &dbCalls))
	mustRegister(t, c, "svc", []string{"db"}, func(deps ...any) (any, error) {
		return "SVC(" + deps[0].(string) + ")", nil
	})

	got, err := c.Resolve("svc")
	if err != nil {
		t.Fatalf("Resolve('svc'): %v", err)
	}
	if got != "SVC(DB1)" {
		t.Errorf("Resolve('svc'): got %v, want 'SVC(DB1)'", got)
	}

	// "db" was built while resolving "svc" — asking for it directly must
	// serve the cached value, not rebuild.
	if got, _ := c.Resolve("db"); got != "DB1" {
		t.Errorf("Resolve('db'): got %v, want 'DB1'", got)
	}
	if dbCalls != 1 {
		t.Errorf("db factory ran %d times, want 1", dbCalls)
	}
}

func TestResolve_DependenciesInDeclaredOrder(t *testing.T) {
	c := container.New()
	var order []string
	for _, id := range []string{"third", "first", "second"} {
		id := id
		mustRegister(t, c, id, nil, func(...any) (any, error) {
			order = append(order, id)
			return id, nil
		})
	}
	mustRegister(t, c, "top", []string{"first", "second", "third"}, func(deps ...any) (any, error) {
		return len(deps), nil
	})

	if _, err := c.Resolve("top"); err != nil {
		t.Fatalf("Resolve('top'): %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("dependency order: got %v, want %v", order, want)
		}
	}
}

func TestResolve_SingleConstruction(t *testing.T) {
	c := container.New()
	calls := 0
	type conn struct{ dsn string }
	mustRegister(t, c, "db", nil, value(&conn{dsn: "sqlite::memory:"}, &calls))

	first, _ := c.Resolve("db")
	for i := 0; i < 10; i++ {
		got, err := c.Resolve("db")
		if err != nil {
			t.Fatalf("Resolve('db'): %v", err)
		}
		if got != first {
			t.Errorf("Resolve('db') returned a different reference on call %d", i+2)
		}
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

// ── Failure caching ───────────────────────────────────────────────────────────

func TestResolve_FailureCached(t *testing.T) {
	c := container.New()
	calls := 0
	boom := errors.New("connection refused")
	mustRegister(t, c, "db", nil, func(...any) (any, error) {
		calls++
		return nil, boom
	})

	_, err1 := c.Resolve("db")
	_, err2 := c.Resolve("db")

	if !errors.Is(err1, boom) {
		t.Errorf("cause not preserved: got %v", err1)
	}
	var fe *container.FactoryError
	if !errors.As(err1, &fe) || fe.ID != "db" {
		t.Errorf("want FactoryError for 'db', got %v", err1)
	}
	if err1 != err2 {
		t.Errorf("second failure differs from first: %v vs %v", err1, err2)
	}
	if calls != 1 {
		t.Errorf("failing factory ran %d times, want 1", calls)
	}
}

func TestResolve_DependencyFailurePropagatesVerbatim(t *testing.T) {
	c := container.New()
	boom := errors.New("no route to host")
	svcCalls := 0
	mustRegister(t, c, "db", nil, func(...any) (any, error) { return nil, boom })
	mustRegister(t, c, "svc", []string{"db"}, value("SVC", &svcCalls))

	_, err := c.Resolve("svc")
	if !errors.Is(err, boom) {
		t.Errorf("Resolve('svc'): got %v, want wrapped %v", err, boom)
	}
	if svcCalls != 0 {
		t.Error("svc factory must not run when a dependency fails")
	}

	// The failure is now cached on both identities.
	if _, err2 := c.Resolve("svc"); err2 != err {
		t.Errorf("svc failure not cached: %v vs %v", err2, err)
	}
	if _, err3 := c.Resolve("db"); !errors.Is(err3, boom) {
		t.Errorf("db failure not cached: %v", err3)
	}
}

func TestResolve_NotFoundIsNotCached(t *testing.T) {
	c := container.New()

	if _, err := c.Resolve("late"); !errors.Is(err, container.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	calls := 0
	mustRegister(t, c, "late", nil, value("here", &calls))
	got, err := c.Resolve("late")
	if err != nil {
		t.Fatalf("Resolve('late') after Register: %v", err)
	}
	if got != "here" {
		t.Errorf("got %v, want 'here'", got)
	}
}

// ── Cycle detection ───────────────────────────────────────────────────────────

func TestResolve_CycleDetected(t *testing.T) {
	c := container.New()
	aCalls, bCalls := 0, 0
	mustRegister(t, c, "a", []string{"b"}, value("A", &aCalls))
	mustRegister(t, c, "b", []string{"a"}, value("B", &bCalls))

	_, err := c.Resolve("a")
	if !errors.Is(err, container.ErrCycle) {
		t.Fatalf("Resolve('a'): got %v, want ErrCycle", err)
	}
	if aCalls != 0 || bCalls != 0 {
		t.Error("no factory in a cyclic chain may run")
	}

	var ce *container.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("want *CycleError, got %T", err)
	}
	if len(ce.Path) != 3 || ce.Path[0] != "a" || ce.Path[2] != "a" {
		t.Errorf("cycle path: got %v, want [a b a]", ce.Path)
	}
}

func TestResolve_SelfCycle(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "narcissus", []string{"narcissus"}, func(...any) (any, error) {
		t.Error("factory must not run")
		return nil, nil
	})

	if _, err := c.Resolve("narcissus"); !errors.Is(err, container.ErrCycle) {
		t.Errorf("got %v, want ErrCycle", err)
	}
}

func TestResolve_CycleFailureCached(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "a", []string{"b"}, func(...any) (any, error) { return "A", nil })
	mustRegister(t, c, "b", []string{"a"}, func(...any) (any, error) { return "B", nil })

	_, err1 := c.Resolve("a")
	_, err2 := c.Resolve("a")
	if err1 != err2 {
		t.Errorf("cycle error not cached: %v vs %v", err1, err2)
	}
}

// ── Registration semantics ────────────────────────────────────────────────────

func TestRegister_LastWinsAndResetsCache(t *testing.T) {
	c := container.New()
	oldCalls, newCalls := 0, 0
	mustRegister(t, c, "db", nil, value("old", &oldCalls))

	if got, _ := c.Resolve("db"); got != "old" {
		t.Fatalf("got %v, want 'old'", got)
	}

	// Re-registering after resolution must drop the stale cached value.
	mustRegister(t, c, "db", nil, value("new", &newCalls))
	if got, _ := c.Resolve("db"); got != "new" {
		t.Errorf("got %v, want 'new' after re-registration", got)
	}
	if oldCalls != 1 || newCalls != 1 {
		t.Errorf("calls: old %d new %d, want 1 and 1", oldCalls, newCalls)
	}
}

func TestRegister_RegisterOnceMode(t *testing.T) {
	c := container.New(container.WithRegisterOnce())
	mustRegister(t, c, "db", nil, func(...any) (any, error) { return "first", nil })

	err := c.Register("db", nil, func(...any) (any, error) { return "second", nil })
	if !errors.Is(err, container.ErrDuplicate) {
		t.Errorf("second Register: got %v, want ErrDuplicate", err)
	}
	if got, _ := c.Resolve("db"); got != "first" {
		t.Errorf("got %v, want 'first' (existing provider kept)", got)
	}

	// Substitute is the explicit replacement path and ignores the mode.
	c.Substitute("db", func(...any) (any, error) { return "fake", nil })
	if got, _ := c.Resolve("db"); got != "fake" {
		t.Errorf("got %v, want 'fake' after Substitute", got)
	}
}

func TestInstance_ServedWithoutConstruction(t *testing.T) {
	c := container.New()
	cfg := &struct{ Name string }{Name: "app"}
	c.Instance("config", cfg)

	got, err := c.Resolve("config")
	if err != nil {
		t.Fatalf("Resolve('config'): %v", err)
	}
	if got != cfg {
		t.Errorf("got %v, want the exact instance", got)
	}
	if !c.Resolved("config") {
		t.Error("Resolved('config') should be true for an Instance")
	}
}

func TestAlias_ResolvesCanonical(t *testing.T) {
	c := container.New()
	calls := 0
	mustRegister(t, c, "db", nil, value("DB1", &calls))
	c.Alias("db", "database")

	a, _ := c.Resolve("db")
	b, _ := c.Resolve("database")
	if a != b {
		t.Errorf("alias resolved a different value: %v vs %v", a, b)
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

// ── Substitution and reset ────────────────────────────────────────────────────

func TestSubstitute_TakesEffect(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "mailer", nil, func(...any) (any, error) { return "smtp", nil })

	if got, _ := c.Resolve("mailer"); got != "smtp" {
		t.Fatalf("got %v, want 'smtp'", got)
	}

	c.Substitute("mailer", func(...any) (any, error) { return "fake", nil })
	if got, _ := c.Resolve("mailer"); got != "fake" {
		t.Errorf("got %v, want 'fake' — cached real value must not survive Substitute", got)
	}
}

func TestSubstitute_WithDependencies(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "db", nil, func(...any) (any, error) { return "DB1", nil })
	mustRegister(t, c, "svc", []string{"db"}, func(deps ...any) (any, error) {
		return "SVC(" + deps[0].(string) + ")", nil
	})

	c.Substitute("svc", func(deps ...any) (any, error) {
		return "FAKE(" + deps[0].(string) + ")", nil
	}, "db")

	if got, _ := c.Resolve("svc"); got != "FAKE(DB1)" {
		t.Errorf("got %v, want 'FAKE(DB1)'", got)
	}
}

func TestReset_StartsNewEpoch(t *testing.T) {
	c := container.New()
	calls := 0
	mustRegister(t, c, "db", nil, func(...any) (any, error) {
		calls++
		return calls, nil
	})

	first, _ := c.Resolve("db")
	c.Reset("db")
	second, _ := c.Resolve("db")

	if first == second {
		t.Error("Reset must force a rebuild on next Resolve")
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestReset_ClearsCachedFailure(t *testing.T) {
	c := container.New()
	fail := true
	mustRegister(t, c, "db", nil, func(...any) (any, error) {
		if fail {
			return nil, errors.New("transient outage")
		}
		return "DB1", nil
	})

	if _, err := c.Resolve("db"); err == nil {
		t.Fatal("want first Resolve to fail")
	}

	fail = false
	// No automatic retry: still the cached error.
	if _, err := c.Resolve("db"); err == nil {
		t.Fatal("failure should stay cached until Reset")
	}

	c.Reset("db")
	got, err := c.Resolve("db")
	if err != nil {
		t.Fatalf("Resolve after Reset: %v", err)
	}
	if got != "DB1" {
		t.Errorf("got %v, want 'DB1'", got)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

func TestBoundAndResolved(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "db", nil, func(...any) (any, error) { return "DB1", nil })

	if !c.Bound("db") {
		t.Error("Bound('db') should be true")
	}
	if c.Bound("missing") {
		t.Error("Bound('missing') should be false")
	}
	if c.Resolved("db") {
		t.Error("Resolved('db') should be false before first Resolve")
	}

	_, _ = c.Resolve("db")
	if !c.Resolved("db") {
		t.Error("Resolved('db') should be true after Resolve")
	}

	c.Reset("db")
	if c.Resolved("db") {
		t.Error("Resolved('db') should be false after Reset")
	}
}

func TestFlush_DropsEverything(t *testing.T) {
	c := container.New()
	mustRegister(t, c, "db", nil, func(...any) (any, error) { return "DB1", nil })
	_, _ = c.Resolve("db")

	c.Flush()
	if c.Bound("db") {
		t.Error("Bound('db') should be false after Flush")
	}
	if _, err := c.Resolve("db"); !errors.Is(err, container.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after Flush", err)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

func TestResolveGeneric(t *testing.T) {
	c := container.New()
	type store struct{ dsn string }
	mustRegister(t, c, "db", nil, func(...any) (any, error) {
		return &store{dsn: ":memory:"}, nil
	})

	s, err := container.Resolve[*store](c, "db")
	if err != nil {
		t.Fatalf("Resolve[*store]: %v", err)
	}
	if s.dsn != ":memory:" {
		t.Errorf("dsn: got %q, want ':memory:'", s.dsn)
	}

	if _, err := container.Resolve[int](c, "db"); err == nil {
		t.Error("Resolve[int] of a *store should fail")
	}
}

func TestMustResolve_PanicsOnMissing(t *testing.T) {
	c := container.New()
	defer func() {
		if recover() == nil {
			t.Error("MustResolve of a missing identity should panic")
		}
	}()
	container.MustResolve[string](c, "missing")
}
