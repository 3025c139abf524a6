package config

import (
	"reflect"
	"testing"
)

func TestEtcdSourceMergeKV(t *testing.T) {
	source := &EtcdSource{Prefix: "/config"}

	data := make(map[string]any)
	source.mergeKV(data, "/config/server/port", []byte("8080"))
	source.mergeKV(data, "/config/server/host", []byte("localhost"))
	source.mergeKV(data, "/config/debug", []byte("true"))
	source.mergeKV(data, "/config/app/name", []byte("soap"))

	want := map[string]any{
		"server": map[string]any{
			"port": 8080,
			"host": "localhost",
		},
		"debug": true,
		"app": map[string]any{
			"name": "soap",
		},
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("merged tree mismatch:\n got %#v\nwant %#v", data, want)
	}
}

func TestEtcdSourceMergeKVSkipsForeignKeys(t *testing.T) {
	source := &EtcdSource{Prefix: "/config"}

	data := make(map[string]any)
	source.mergeKV(data, "/other/key", []byte("1"))
	source.mergeKV(data, "/config/", []byte("2"))

	if len(data) != 0 {
		t.Errorf("keys outside the prefix must be ignored, got %#v", data)
	}
}

func TestEtcdSourceMergeKVInvalidYaml(t *testing.T) {
	source := &EtcdSource{Prefix: "/config"}

	data := make(map[string]any)
	// 非法 YAML 保留原始字符串
	source.mergeKV(data, "/config/raw", []byte("a: [b"))

	if data["raw"] != "a: [b" {
		t.Errorf("unparseable value must stay a raw string, got %#v", data["raw"])
	}
}

func TestEtcdSourcePrefixNormalization(t *testing.T) {
	bare := &EtcdSource{Prefix: "/config"}
	slashed := &EtcdSource{Prefix: "/config/"}

	if bare.normalizedPrefix() != "/config/" || slashed.normalizedPrefix() != "/config/" {
		t.Error("prefix must always end with a trailing slash")
	}
}

func TestBuilderAddEtcd(t *testing.T) {
	b := NewBuilder()
	b.AddEtcd([]string{"localhost:2379"}, "/config", func(s *EtcdSource) {
		s.Username = "root"
	})

	if len(b.sources) != 1 {
		t.Fatalf("expected one source, got %d", len(b.sources))
	}
	source, ok := b.sources[0].(*EtcdSource)
	if !ok {
		t.Fatalf("expected *EtcdSource, got %T", b.sources[0])
	}
	if source.Username != "root" || source.Prefix != "/config" {
		t.Errorf("configure callback must apply: %+v", source)
	}
}
