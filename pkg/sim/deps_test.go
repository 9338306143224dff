package sim

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/gonewx/fireworks"

// 模拟核心不依赖任何渲染库，无头工具（cmd/fxstat）因此不需要图形环境
var renderingImports = []string{
	"github.com/hajimehoshi/ebiten",
	"github.com/gdamore/tcell",
}

// moduleImports 返回 dir 下非测试源文件的全部导入路径
func moduleImports(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	var imports []string
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			imports = append(imports, path)
		}
	}
	return imports
}

func TestCoreHasNoRenderingDependency(t *testing.T) {
	root := filepath.Join("..", "..")
	roots := []string{
		modulePath + "/pkg/sim",
		modulePath + "/pkg/audio",
	}

	seen := map[string]bool{}
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		if seen[pkg] {
			continue
		}
		seen[pkg] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(pkg, modulePath+"/")))
		for _, imp := range moduleImports(t, dir) {
			for _, banned := range renderingImports {
				if strings.HasPrefix(imp, banned) {
					t.Errorf("%s imports %s", pkg, imp)
				}
			}
			if strings.HasPrefix(imp, modulePath+"/") {
				queue = append(queue, imp)
			}
		}
	}

	for _, want := range []string{"pkg/systems", "pkg/entities", "pkg/game"} {
		if !seen[modulePath+"/"+want] {
			t.Errorf("%s not reached from pkg/sim", want)
		}
	}
}
