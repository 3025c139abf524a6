package digen

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/gocrud/soap/di"
)

// Generator 依赖上下文收集器 + 代码生成器
// 按加入顺序累积 DependencyContext，渲染为注册脚本和模块描述两种源文本。
// 生成时不校验依赖令牌是否真实存在。
type Generator struct {
	mu       sync.Mutex
	contexts []DependencyContext
}

// NewGenerator 创建生成器
func NewGenerator() *Generator {
	return &Generator{}
}

// Add 追加上下文，保持加入顺序
func (g *Generator) Add(contexts ...DependencyContext) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.contexts = append(g.contexts, contexts...)
	return g
}

// Contexts 返回已累积上下文的副本
func (g *Generator) Contexts() []DependencyContext {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]DependencyContext, len(g.contexts))
	copy(out, g.contexts)
	return out
}

// Clear 清空已累积的上下文
func (g *Generator) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.contexts = nil
}

var templateFuncs = template.FuncMap{
	"scopeOption": scopeOption,
	"depsOption":  depsOption,
	"quoteList":   quoteList,
}

var registrationTemplate = template.Must(template.New("registration").Funcs(templateFuncs).Parse(
	`// Code generated by digen; DO NOT EDIT.
package {{.Package}}

import (
	"github.com/gocrud/soap/di"
)

// RegisterAll 按声明顺序绑定所有依赖
func RegisterAll(c *di.Container) {
{{- range .Contexts}}
	// {{.Type}}: {{.Path}}
	c.BindClass({{printf "%q" .Name}}, New{{.Name}}{{scopeOption .Scope}}{{depsOption .Dependencies}})
{{- end}}
}
`))

var moduleTemplate = template.Must(template.New("module").Funcs(templateFuncs).Parse(
	`// Code generated by digen; DO NOT EDIT.
package {{.Package}}

import (
	"github.com/gocrud/soap/di"
)

// {{.Module}}Module 聚合 {{len .Contexts}} 个提供者
var {{.Module}}Module = di.Module{
	Providers: []di.Provider{
{{- range .Contexts}}
		di.Class({{printf "%q" .Name}}, New{{.Name}}{{scopeOption .Scope}}{{depsOption .Dependencies}}),
{{- end}}
	},
{{- if .Exports}}
	Exports: []string{{"{"}}{{quoteList .Exports}}{{"}"}},
{{- end}}
}
`))

// GenerateRegistrationCode 渲染注册脚本
// pkg 为生成文件的包名。
func (g *Generator) GenerateRegistrationCode(pkg string) (string, error) {
	data := struct {
		Package  string
		Contexts []DependencyContext
	}{Package: pkg, Contexts: g.Contexts()}

	var buf bytes.Buffer
	if err := registrationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("digen: failed to render registration code: %w", err)
	}
	return buf.String(), nil
}

// GenerateModuleCode 渲染模块描述
// module 为生成的模块变量名前缀。
func (g *Generator) GenerateModuleCode(pkg, module string) (string, error) {
	contexts := g.Contexts()

	exports := make([]string, 0)
	for _, c := range contexts {
		if c.Exports {
			exports = append(exports, c.Name)
		}
	}

	data := struct {
		Package  string
		Module   string
		Contexts []DependencyContext
		Exports  []string
	}{Package: pkg, Module: module, Contexts: contexts, Exports: exports}

	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("digen: failed to render module code: %w", err)
	}
	return buf.String(), nil
}

// scopeOption 非默认作用域时生成对应的选项实参
func scopeOption(scope di.Scope) string {
	switch scope {
	case di.ScopeTransient:
		return ", di.WithTransient()"
	case di.ScopeRequest:
		return ", di.WithRequest()"
	default:
		return ""
	}
}

func depsOption(deps []string) string {
	if len(deps) == 0 {
		return ""
	}
	return fmt.Sprintf(", di.WithDependencies(%s)", quoteList(deps))
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
