package gtrans

import "runtime/debug"

const (
	Name    = "gtrans"
	Version = "0.1.0"
)

// GitCommit and BuildDate are stamped by release builds:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gtrans.GitCommit=$(git rev-parse HEAD)"
//
// When left empty, ReadBuildInfo falls back to the VCS data the go tool embeds.
var (
	GitCommit string
	BuildDate string
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool // built from a dirty work tree
}

// ReadBuildInfo combines the ldflags values with the module build info.
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, Commit: GitCommit, Date: BuildDate}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the version with a short commit, e.g. "0.1.0+1a2b3c4-dirty".
func (b BuildInfo) String() string {
	v := b.Version
	if b.Commit != "" {
		short := b.Commit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
		if b.Modified {
			v += "-dirty"
		}
	}
	return v
}
