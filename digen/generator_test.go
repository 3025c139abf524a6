package digen

import (
	"strings"
	"testing"

	"github.com/gocrud/soap/di"
)

func TestGenerateRegistrationCode(t *testing.T) {
	g := NewGenerator()
	g.Add(
		NewRepositoryContext("UserRepository", "internal/user"),
		NewServiceContext("UserService", "internal/user", "UserRepository"),
		NewControllerContext("UserController", "internal/user", "UserService"),
	)

	code, err := g.GenerateRegistrationCode("wiring")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(code, "package wiring") {
		t.Fatal("missing package clause")
	}
	if !strings.Contains(code, `c.BindClass("UserRepository", NewUserRepository)`) {
		t.Fatalf("missing repository binding:\n%s", code)
	}
	if !strings.Contains(code, `c.BindClass("UserService", NewUserService, di.WithDependencies("UserRepository"))`) {
		t.Fatalf("missing service binding:\n%s", code)
	}

	// 保持加入顺序
	repoIdx := strings.Index(code, "UserRepository")
	svcIdx := strings.Index(code, "UserService")
	ctrlIdx := strings.Index(code, "UserController")
	if !(repoIdx < svcIdx && svcIdx < ctrlIdx) {
		t.Fatalf("contexts rendered out of order:\n%s", code)
	}
}

func TestGenerateRegistrationCodeScopes(t *testing.T) {
	g := NewGenerator()
	g.Add(NewServiceContext("Job", "internal/job").WithScope(di.ScopeTransient))

	code, err := g.GenerateRegistrationCode("wiring")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(code, `c.BindClass("Job", NewJob, di.WithTransient())`) {
		t.Fatalf("missing transient option:\n%s", code)
	}
}

func TestGenerateModuleCode(t *testing.T) {
	g := NewGenerator()
	g.Add(
		NewServiceContext("OrderService", "internal/order", "OrderRepository"),
		NewControllerContext("OrderController", "internal/order", "OrderService"),
	)

	code, err := g.GenerateModuleCode("order", "Order")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(code, "var OrderModule = di.Module{") {
		t.Fatalf("missing module variable:\n%s", code)
	}
	if !strings.Contains(code, `di.Class("OrderService", NewOrderService, di.WithDependencies("OrderRepository"))`) {
		t.Fatalf("missing provider entry:\n%s", code)
	}
	// 只有控制器默认导出
	if !strings.Contains(code, `Exports: []string{"OrderController"}`) {
		t.Fatalf("missing exports:\n%s", code)
	}
}

func TestGeneratorClear(t *testing.T) {
	g := NewGenerator()
	g.Add(NewServiceContext("A", "a"))
	g.Clear()

	if len(g.Contexts()) != 0 {
		t.Fatal("expected no contexts after Clear")
	}

	code, err := g.GenerateRegistrationCode("wiring")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(code, "BindClass") {
		t.Fatalf("cleared generator should render no bindings:\n%s", code)
	}
}

func TestGeneratorDoesNotValidateDependencies(t *testing.T) {
	g := NewGenerator()
	// 引用从未声明的令牌也照常生成
	g.Add(NewServiceContext("Ghost", "internal/ghost", "NotBoundAnywhere"))

	code, err := g.GenerateRegistrationCode("wiring")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(code, `di.WithDependencies("NotBoundAnywhere")`) {
		t.Fatalf("unknown dependency should pass through:\n%s", code)
	}
}
