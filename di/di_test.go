package di_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gocrud/soap/di"
)

type Dependency struct {
	ID int
}

func NewDependency() *Dependency {
	return &Dependency{ID: 1}
}

type Service struct {
	Dep *Dependency
}

func NewService(dep *Dependency) *Service {
	return &Service{Dep: dep}
}

func TestSingletonIdentity(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)

	a, err := c.Get("Dependency")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b, err := c.Get("Dependency")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if a != b {
		t.Error("singleton resolutions must return the identical instance")
	}
}

func TestTransientDistinct(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency, di.WithTransient())

	a, _ := c.Get("Dependency")
	b, _ := c.Get("Dependency")

	if a == b {
		t.Error("transient resolutions must return distinct instances")
	}
}

func TestUnboundTokenError(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	_, err := c.Get("missing-token")
	if err == nil {
		t.Fatal("expected error for unbound token")
	}
	if !errors.Is(err, di.ErrUnboundToken) {
		t.Errorf("expected ErrUnboundToken, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing-token") {
		t.Errorf("error must identify the token by name: %v", err)
	}
}

func TestClear(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)
	c.BindValue("answer", 42)
	c.RegisterModule("m", di.Module{
		Providers: []di.Provider{di.Value("mod.value", "x")},
	})

	if _, err := c.Get("Dependency"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	c.Clear()

	for _, token := range []string{"Dependency", "answer", "mod.value"} {
		if c.Has(token) {
			t.Errorf("Has(%q) must be false after Clear", token)
		}
		if _, err := c.Get(token); !errors.Is(err, di.ErrUnboundToken) {
			t.Errorf("Get(%q) after Clear: expected ErrUnboundToken, got %v", token, err)
		}
	}
	if len(c.ModuleNames()) != 0 {
		t.Error("Clear must also drop module records")
	}
}

func TestRebindOverwrites(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	c.BindValue("greeting", "hello")
	if v, _ := c.Get("greeting"); v != "hello" {
		t.Fatalf("expected hello, got %v", v)
	}

	// 重绑定后必须只反映最新绑定，包括已缓存的单例
	c.BindClass("greeting", func() string { return "bonjour" })
	if v, _ := c.Get("greeting"); v != "bonjour" {
		t.Errorf("expected bonjour after rebind, got %v", v)
	}
}

// Scenario A: 单例服务依赖单例，所有路径解析到同一实例
func TestSingletonServiceSharesSingletonDep(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)
	c.BindClass("Service", NewService, di.WithDependencies("Dependency"))

	s1, err := c.Get("Service")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	s2, _ := c.Get("Service")
	dep, _ := c.Get("Dependency")

	if s1.(*Service) != s2.(*Service) {
		t.Error("singleton Service must be identical across resolutions")
	}
	if s1.(*Service).Dep != s2.(*Service).Dep {
		t.Error("Service.Dep must be identical across resolutions")
	}
	if s1.(*Service).Dep != dep.(*Dependency) {
		t.Error("Service.Dep must be the same instance as Get(Dependency)")
	}
}

// Scenario B: 瞬态服务每次新建，但其单例依赖保持同一实例
func TestTransientServiceSharesSingletonDep(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)
	c.BindClass("Service", NewService, di.WithTransient(), di.WithDependencies("Dependency"))

	s1, _ := c.Get("Service")
	s2, _ := c.Get("Service")

	if s1.(*Service) == s2.(*Service) {
		t.Error("transient Service must differ across resolutions")
	}
	if s1.(*Service).Dep != s2.(*Service).Dep {
		t.Error("singleton dependency must be shared across transient instances")
	}
}

// Scenario C: 工厂调用次数由作用域决定
func TestFactoryInvocationCount(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	calls := 0
	c.BindFactory("F", func() int {
		calls++
		return calls
	})

	for i := 0; i < 5; i++ {
		if _, err := c.Get("F"); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("singleton factory must be invoked exactly once, got %d", calls)
	}

	calls = 0
	c.BindFactory("F", func() int {
		calls++
		return calls
	}, di.WithTransient())

	for i := 0; i < 5; i++ {
		c.Get("F")
	}
	if calls != 5 {
		t.Errorf("transient factory must be invoked once per Get, got %d", calls)
	}
}

func TestFactoryWithDependencies(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindValue("dsn", "sqlite://mem")
	c.BindFactory("conn", func(dsn string) string {
		return "open:" + dsn
	}, di.WithDependencies("dsn"))

	v, err := c.Get("conn")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "open:sqlite://mem" {
		t.Errorf("factory arguments must be resolved positionally, got %v", v)
	}
}

func TestValueProviderSkipsResolution(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	dep := &Dependency{ID: 7}
	c.BindValue("Dependency", dep)

	v, err := c.Get("Dependency")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(*Dependency) != dep {
		t.Error("value provider must return the stored value itself")
	}
}

func TestInvokeDerivesTokens(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)

	var got *Dependency
	err := c.Invoke(func(dep *Dependency) {
		got = dep
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got == nil || got.ID != 1 {
		t.Error("Invoke must resolve parameters by derived token")
	}
}

func TestInvokeWithExplicitTokens(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	// 同一类型绑定到两个 token，依靠显式 token 区分参数位
	c.BindValue("dep:primary", &Dependency{ID: 10})
	c.BindValue("dep:replica", &Dependency{ID: 20})

	var primary, replica *Dependency
	err := c.InvokeWith(func(a, b *Dependency) {
		primary, replica = a, b
	}, "dep:primary", "dep:replica")
	if err != nil {
		t.Fatalf("InvokeWith failed: %v", err)
	}
	if primary == nil || primary.ID != 10 {
		t.Errorf("first parameter must come from dep:primary, got %+v", primary)
	}
	if replica == nil || replica.ID != 20 {
		t.Errorf("second parameter must come from dep:replica, got %+v", replica)
	}
}

func TestInvokeWithPartialTokens(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindValue("dep:primary", &Dependency{ID: 10})
	c.BindClass("Dependency", NewDependency)

	// 空串参数位回退到按类型推导
	var explicit, derived *Dependency
	err := c.InvokeWith(func(a, b *Dependency) {
		explicit, derived = a, b
	}, "dep:primary")
	if err != nil {
		t.Fatalf("InvokeWith failed: %v", err)
	}
	if explicit.ID != 10 {
		t.Errorf("explicit token must win for its parameter: %+v", explicit)
	}
	if derived == nil || derived.ID != 1 {
		t.Errorf("unspecified parameter must fall back to derivation: %+v", derived)
	}
}

func TestCycleDetection(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	c.BindClass("A", func(b *Service) *Dependency { return &Dependency{} }, di.WithDependencies("B"))
	c.BindClass("B", func(a *Dependency) *Service { return &Service{} }, di.WithDependencies("A"))

	_, err := c.Get("A")
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

func TestMalformedProviderLazyError(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	// 绑定阶段不报错
	c.BindProvider(di.ProviderConfig{Provide: "broken"})

	if !c.Has("broken") {
		t.Fatal("malformed provider must still be bound")
	}

	_, err := c.Get("broken")
	if !errors.Is(err, di.ErrMalformedProvider) {
		t.Errorf("expected ErrMalformedProvider on first Get, got %v", err)
	}

	// 形状合法的旧版配置正常工作
	c.BindProvider(di.ProviderConfig{Provide: "ok", UseValue: 10})
	if v, _ := c.Get("ok"); v != 10 {
		t.Errorf("expected 10, got %v", v)
	}
}

func TestResolveGeneric(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindClass("Dependency", NewDependency)

	dep, err := di.Resolve[*Dependency](c, "Dependency")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dep.ID != 1 {
		t.Errorf("unexpected value: %+v", dep)
	}

	if _, err := di.Resolve[string](c, "Dependency"); err == nil {
		t.Error("Resolve with wrong type must fail")
	}
}

func TestResolveToken(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())

	port := di.NewToken[int]("server.port")
	c.BindValue(port.Name(), 8080)

	v, err := di.ResolveToken(c, port)
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if v != 8080 {
		t.Errorf("expected 8080, got %d", v)
	}
}

func TestTokensSorted(t *testing.T) {
	c := di.NewWithStore(di.NewMetadataStore())
	c.BindValue("b", 2)
	c.BindValue("a", 1)
	c.BindValue("c", 3)

	tokens := c.Tokens()
	if len(tokens) != 3 || tokens[0] != "a" || tokens[1] != "b" || tokens[2] != "c" {
		t.Errorf("unexpected tokens: %v", tokens)
	}
}
