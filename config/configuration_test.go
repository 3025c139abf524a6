package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func TestPathCache(t *testing.T) {
	cache := &PathCache{}

	got := cache.GetPathSegments("server:port")
	if !reflect.DeepEqual(got, []string{"server", "port"}) {
		t.Fatalf("unexpected segments: %v", got)
	}

	got = cache.GetPathSegments("redis.addr")
	if !reflect.DeepEqual(got, []string{"redis", "addr"}) {
		t.Fatalf("unexpected segments: %v", got)
	}

	// 第二次命中缓存，结果一致
	again := cache.GetPathSegments("server:port")
	if !reflect.DeepEqual(again, []string{"server", "port"}) {
		t.Fatalf("unexpected cached segments: %v", again)
	}
}

func TestValueStoreConcurrency(t *testing.T) {
	store := NewValueStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Store(map[string]any{"n": j})
				_ = store.Load()
			}
		}()
	}
	wg.Wait()

	if store.Load() == nil {
		t.Fatal("expected non-nil snapshot")
	}
}

func TestLayeredSources(t *testing.T) {
	cfg, err := NewBuilder().
		AddInMemory(map[string]any{
			"server": map[string]any{"port": 8080, "host": "localhost"},
			"name":   "base",
		}).
		AddInMemory(map[string]any{
			"server": map[string]any{"port": 9090},
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	port, err := cfg.GetInt("server:port")
	if err != nil || port != 9090 {
		t.Fatalf("expected 9090, got %d (%v)", port, err)
	}
	// 未被覆盖的键保留
	if cfg.Get("server:host") != "localhost" {
		t.Fatalf("expected localhost, got %q", cfg.Get("server:host"))
	}
	if cfg.Get("name") != "base" {
		t.Fatalf("expected base, got %q", cfg.Get("name"))
	}
}

func TestYamlFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := "server:\n  port: 8080\ndebug: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewBuilder().AddYamlFile(path).Build()
	if err != nil {
		t.Fatal(err)
	}

	port, err := cfg.GetInt("server.port")
	if err != nil || port != 8080 {
		t.Fatalf("expected 8080, got %d (%v)", port, err)
	}
	debug, err := cfg.GetBool("debug")
	if err != nil || !debug {
		t.Fatalf("expected true, got %v (%v)", debug, err)
	}
}

func TestYamlFileSourceOptional(t *testing.T) {
	if _, err := NewBuilder().AddYamlFile("missing.yaml", true).Build(); err != nil {
		t.Fatalf("optional missing file should not fail: %v", err)
	}
	if _, err := NewBuilder().AddYamlFile("missing.yaml").Build(); err == nil {
		t.Fatal("required missing file should fail")
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("MYAPP_SERVER__PORT", "7070")
	t.Setenv("MYAPP_NAME", "demo")
	t.Setenv("OTHER_KEY", "ignored")

	cfg, err := NewBuilder().AddEnvironmentVariables("MYAPP").Build()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Get("server:port") != "7070" {
		t.Fatalf("expected 7070, got %q", cfg.Get("server:port"))
	}
	if cfg.Get("name") != "demo" {
		t.Fatalf("expected demo, got %q", cfg.Get("name"))
	}
	if cfg.Get("other_key") != "" {
		t.Fatal("unprefixed variable should be ignored")
	}
}

func TestGetSectionAndBind(t *testing.T) {
	cfg, err := NewBuilder().
		AddInMemory(map[string]any{
			"redis": map[string]any{"addr": "localhost:6379", "db": 2},
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	section := cfg.GetSection("redis")
	if section.Get("addr") != "localhost:6379" {
		t.Fatalf("unexpected addr: %q", section.Get("addr"))
	}

	var opts struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	}
	if err := cfg.Bind("redis", &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected bind result: %+v", opts)
	}

	// 不存在的节返回空节
	empty := cfg.GetSection("nope")
	if empty.Get("anything") != "" {
		t.Fatal("expected empty section")
	}
}

func TestGetWithDefault(t *testing.T) {
	cfg, err := NewBuilder().AddInMemory(map[string]any{"a": "1"}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetWithDefault("a", "x") != "1" {
		t.Fatal("existing key should win")
	}
	if cfg.GetWithDefault("b", "x") != "x" {
		t.Fatal("missing key should fall back to default")
	}
}
