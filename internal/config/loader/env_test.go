package loader

import "testing"

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("QEMACS_CHARSET", "latin1")
	t.Setenv("QEMACS_LOG_LEVEL", "debug")
	t.Setenv("QEMACS_EDITOR_UNDO_GROUPS", "20")
	t.Setenv("QEMACS_SEARCH_SMART_CASE", "yes")
	t.Setenv("QEMACS_BOGUS", "x")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tests := []struct {
		path string
		want any
	}{
		{"editor.charset", "latin1"},
		{"logging.level", "debug"},
		{"editor.undo_groups", int64(20)},
		{"search.smart_case", true},
	}
	for _, tt := range tests {
		if got, ok := GetByPath(config, tt.path); !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["bogus"]; ok {
		t.Errorf("variable without a key was loaded: %v", config)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	t.Setenv("QEMACS_PAGES", "4096")
	l := NewEnvLoader(EnvPrefix)
	l.AddMapping("QEMACS_PAGES", "pages.large")
	config, _ := l.Load()
	if got, _ := GetByPath(config, "pages.large"); got != int64(4096) {
		t.Errorf("pages.large = %v", got)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{"QEMACS_EDITOR_TAB_WIDTH", "editor.tab_width"},
		{"QEMACS_FILES_MMAP_THRESHOLD", "files.mmap_threshold"},
		{"QEMACS_SESSION_PATH", "session.path"},
		{"QEMACS_EDITOR", ""},
		{"QEMACS__X", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"utf-8", "utf-8"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
