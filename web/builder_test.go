package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/soap/di"
)

type Greeter struct {
	Prefix string
}

func NewGreeter() *Greeter {
	return &Greeter{Prefix: "hello"}
}

type GreetController struct {
	greeter *Greeter
}

func NewGreetController(greeter *Greeter) *GreetController {
	return &GreetController{greeter: greeter}
}

func (c *GreetController) MountRoutes(router gin.IRouter) {
	router.GET("/greet/:name", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "%s %s", c.greeter.Prefix, ctx.Param("name"))
	})
}

func TestControllerToken(t *testing.T) {
	token, isCtor, err := controllerToken(NewGreetController)
	if err != nil {
		t.Fatal(err)
	}
	if token != "GreetController" || !isCtor {
		t.Fatalf("unexpected token %q isCtor=%v", token, isCtor)
	}

	token, isCtor, err = controllerToken(&GreetController{})
	if err != nil {
		t.Fatal(err)
	}
	if token != "GreetController" || isCtor {
		t.Fatalf("unexpected token %q isCtor=%v", token, isCtor)
	}

	if _, _, err := controllerToken(nil); err == nil {
		t.Fatal("nil controller should fail")
	}
	if _, _, err := controllerToken(func() {}); err == nil {
		t.Fatal("constructor without return value should fail")
	}
}

func TestHostMountsControllers(t *testing.T) {
	container := di.New()
	container.BindClass("Greeter", NewGreeter)

	builder := NewBuilder()
	builder.AddControllers(NewGreetController)
	if err := builder.RegisterServices(container); err != nil {
		t.Fatal(err)
	}

	host := builder.Build(container)
	if err := host.mapControllers(); err != nil {
		t.Fatal(err)
	}

	// 控制器的构造依赖来自容器
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/greet/world", nil)
	builder.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if rec.Body.String() != "hello world" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMapControllersUnresolvable(t *testing.T) {
	container := di.New()

	builder := NewBuilder()
	builder.AddControllers(NewGreetController)
	if err := builder.RegisterServices(container); err != nil {
		t.Fatal(err)
	}

	// Greeter 未绑定，解析控制器时失败
	host := builder.Build(container)
	if err := host.mapControllers(); err == nil {
		t.Fatal("expected resolution failure for missing dependency")
	}
}

func TestBuilderRoutes(t *testing.T) {
	builder := NewBuilder()
	builder.Get("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	builder.Engine().ServeHTTP(rec, req)

	if rec.Body.String() != "pong" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
