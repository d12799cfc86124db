// Package misc keeps program identity information.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "smover"

// set by linker with -X flags when building release binaries
var (
	version = "dev"
	gitHash = ""
)

var buildInfo = sync.OnceValue(func() (info struct{ version, hash string }) {
	info.version, info.hash = version, gitHash
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.version = bi.Main.Version
	}
	if info.hash == "" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.hash = s.Value
				break
			}
		}
	}
	return
})

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return buildInfo().version
}

// GetGitHash returns abbreviated revision the binary was built from or
// "unknown".
func GetGitHash() string {
	h := buildInfo().hash
	if len(h) > 8 {
		h = h[:8]
	}
	if h == "" {
		h = "unknown"
	}
	return h
}
