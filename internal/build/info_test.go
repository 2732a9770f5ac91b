package build

import "testing"

func TestSummary(t *testing.T) {
	defer func(v, c, b string) { Version, Commit, Branch = v, c, b }(Version, Commit, Branch)

	tests := []struct {
		version, commit, branch string
		want                    string
	}{
		{"dev", "unknown", "unknown", "dev"},
		{"v1.2.0", "abc1234def5678", "unknown", "v1.2.0 (abc1234)"},
		{"v1.2.0", "abc1234def5678", "main", "v1.2.0 (abc1234 on main)"},
		{"v1.2.0", "abc", "main", "v1.2.0 (abc on main)"},
	}
	for _, tt := range tests {
		Version, Commit, Branch = tt.version, tt.commit, tt.branch
		if got := Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}
