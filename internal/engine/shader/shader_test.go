package shader

import (
	"strings"
	"testing"
)

func TestResolveUniforms(t *testing.T) {
	locations := map[string]int32{"uProjection": 0, "uModel": 3}
	lookup := func(name string) int32 {
		if loc, ok := locations[name]; ok {
			return loc
		}
		return -1
	}

	tests := []struct {
		name    string
		names   []string
		wantErr string
	}{
		{"all found", []string{"uProjection", "uModel"}, ""},
		{"none requested", nil, ""},
		{"one missing", []string{"uProjection", "uTexture"}, "uTexture"},
		{"all missing", []string{"uA", "uB"}, "uA, uB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locs, err := resolveUniforms(lookup, tt.names...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, name := range tt.names {
				if locs[name] != locations[name] {
					t.Errorf("%s = %d, want %d", name, locs[name], locations[name])
				}
			}
		})
	}
}

func TestResolveUniformsLooksUpOnce(t *testing.T) {
	calls := map[string]int{}
	lookup := func(name string) int32 {
		calls[name]++
		return 1
	}

	if _, err := resolveUniforms(lookup, "uProjection", "uModel"); err != nil {
		t.Fatal(err)
	}
	for name, n := range calls {
		if n != 1 {
			t.Errorf("%s looked up %d times, want 1", name, n)
		}
	}
}

func TestProgramUniform(t *testing.T) {
	p := &Program{uniforms: map[string]int32{"uModel": 2}}
	if got := p.Uniform("uModel"); got != 2 {
		t.Errorf("Uniform(uModel) = %d, want 2", got)
	}
	if got := p.Uniform("uOther"); got != -1 {
		t.Errorf("Uniform(uOther) = %d, want -1", got)
	}
}

func TestInfoLog(t *testing.T) {
	if got := infoLog(0, nil); got != "no log" {
		t.Errorf("infoLog(0) = %q", got)
	}
	got := infoLog(6, func(buf []byte) {
		copy(buf, "bad\n\x00\x00")
	})
	if got != "bad" {
		t.Errorf("infoLog = %q, want %q", got, "bad")
	}
}
