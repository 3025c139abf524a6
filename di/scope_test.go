package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/soap/di"
)

type unit struct {
	n int
}

var unitSeq int

func newUnit() *unit {
	unitSeq++
	return &unit{n: unitSeq}
}

func TestRequestScopeCaching(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("unit", newUnit, di.WithRequest())

	scope := c.CreateScope()

	a, err := scope.Get("unit")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b, _ := scope.Get("unit")
	if a != b {
		t.Error("request-scoped token must be cached within one scope")
	}

	other := c.CreateScope()
	v, _ := other.Get("unit")
	if v == a {
		t.Error("different scopes must hold independent instances")
	}
}

func TestRequestScopeFromRootIsFresh(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("unit", newUnit, di.WithRequest())

	// 从根容器解析请求作用域 token：每次新建
	a, _ := c.Get("unit")
	b, _ := c.Get("unit")
	if a == b {
		t.Error("request scope resolved at the root must behave like transient")
	}
}

func TestScopeDelegatesSingleton(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)

	scope := c.CreateScope()
	fromScope, err := scope.Get("Dependency")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	fromRoot, _ := c.Get("Dependency")

	if fromScope != fromRoot {
		t.Error("singletons must be shared between scope and root")
	}
}

func TestScopeTransientAlwaysFresh(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("unit", newUnit, di.WithTransient())

	scope := c.CreateScope()
	a, _ := scope.Get("unit")
	b, _ := scope.Get("unit")
	if a == b {
		t.Error("transient must stay transient inside a scope")
	}
}

// 请求作用域的依赖穿过作用域解析：同一请求内共享，跨请求隔离
func TestRequestScopedDependencyGraph(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	type worker struct {
		u *unit
	}

	c.BindClass("unit", newUnit, di.WithRequest())
	c.BindClass("worker", func(u *unit) *worker {
		return &worker{u: u}
	}, di.WithRequest(), di.WithDependencies("unit"))

	scope := c.CreateScope()
	w, err := scope.Get("worker")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	u, _ := scope.Get("unit")
	if w.(*worker).u != u.(*unit) {
		t.Error("request-scoped dependency must be shared within the scope")
	}

	other := c.CreateScope()
	w2, _ := other.Get("worker")
	if w2.(*worker).u == w.(*worker).u {
		t.Error("request-scoped dependency must not leak across scopes")
	}
}

func TestScopeCycleDetection(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	c.BindClass("A", func(b *Service) *Dependency { return &Dependency{} }, di.WithRequest(), di.WithDependencies("B"))
	c.BindClass("B", func(a *Dependency) *Service { return &Service{} }, di.WithRequest(), di.WithDependencies("A"))

	scope := c.CreateScope()
	_, err := scope.Get("A")
	if err == nil {
		t.Fatal("expected cycle error")
	}

	var cycle *di.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycle.Chain) == 0 || cycle.Chain[len(cycle.Chain)-1] != "A" {
		t.Errorf("cycle chain must end at the repeated token: %v", cycle.Chain)
	}
}

func TestScopeTransientCycleDetection(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	c.BindClass("A", func(b *Service) *Dependency { return &Dependency{} }, di.WithTransient(), di.WithDependencies("B"))
	c.BindClass("B", func(a *Dependency) *Service { return &Service{} }, di.WithTransient(), di.WithDependencies("A"))

	scope := c.CreateScope()
	_, err := scope.Get("A")

	var cycle *di.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestScopeDispose(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("unit", newUnit, di.WithRequest())

	scope := c.CreateScope()
	a, _ := scope.Get("unit")
	scope.Dispose()

	b, _ := scope.Get("unit")
	if a == b {
		t.Error("Dispose must drop cached instances")
	}
}
