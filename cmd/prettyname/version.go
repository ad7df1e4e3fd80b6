package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the prettyname release. A binary installed with
// `go install github.com/broady/prettyname/cmd/prettyname@v0.1.0` reports
// its module version; a build from a checkout reports the VERSION file as
// "devel-0.1.0", followed by the short commit and "-dirty" for uncommitted
// changes when the build recorded them.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return buildVersion(strings.TrimSpace(embeddedVersion), info)
}

func buildVersion(base string, info *debug.BuildInfo) string {
	if info == nil {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				rev = s.Value[:7]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	v := "devel-" + base
	if rev != "" {
		v += "+" + rev
		if dirty {
			v += "-dirty"
		}
	}
	return v
}
