package embedded

import (
	"testing"
	"testing/fstest"
)

// 真正的资源嵌入在项目根目录的 embed.go 中，这里用内存文件系统测试接口行为。

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	// 重置状态
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	// 重置状态以避免影响其他测试
	initialized = false
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	initialized = false

	_, err := ReadFile(DefaultConfigPath)
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	Init(fstest.MapFS{
		"data/fireworks.yaml": &fstest.MapFile{Data: []byte("spawn:\n  rate: 4\n")},
	})
	defer func() { initialized = false }()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain path", "data/fireworks.yaml", false},
		{"dot prefix", "./data/fireworks.yaml", false},
		{"missing file", "data/missing.yaml", true},
		{"unknown prefix", "assets/fireworks.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != "spawn:\n  rate: 4\n" {
				t.Errorf("ReadFile(%q) = %q", tt.path, data)
			}
		})
	}

	if !Exists(DefaultConfigPath) {
		t.Error("Exists should report the default config")
	}
	if Exists("data/missing.yaml") {
		t.Error("Exists should be false for a missing file")
	}
}
