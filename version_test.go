package gtrans

import "testing"

func TestBuildInfo_String(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"release", BuildInfo{Version: "0.1.0"}, "0.1.0"},
		{"short commit", BuildInfo{Version: "0.1.0", Commit: "abc"}, "0.1.0+abc"},
		{"long commit", BuildInfo{Version: "0.1.0", Commit: "1a2b3c4d5e6f"}, "0.1.0+1a2b3c4"},
		{"dirty", BuildInfo{Version: "0.1.0", Commit: "1a2b3c4d5e6f", Modified: true}, "0.1.0+1a2b3c4-dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadBuildInfo_PrefersStampedValues(t *testing.T) {
	oldCommit, oldDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = oldCommit, oldDate })

	GitCommit, BuildDate = "deadbeefcafe", "2024-01-01T00:00:00Z"

	info := ReadBuildInfo()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.Commit != "deadbeefcafe" || info.Date != "2024-01-01T00:00:00Z" {
		t.Errorf("stamped values not kept: %+v", info)
	}
}
