package handlers

import (
	"net/http"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
)

// Build metadata, set from main through SetVersionInfo.
var (
	AppName      = "appscope"
	AppVersion   = "dev"
	AppCommit    = "unknown"
	AppBuildDate = "unknown"
)

func SetVersionInfo(version, commit, buildDate string) {
	AppVersion = version
	AppCommit = commit
	AppBuildDate = buildDate
}

// VersionResponse is the /version body.
type VersionResponse struct {
	App          AppInfo     `json:"app" yaml:"app"`
	Dependencies DepInfo     `json:"dependencies" yaml:"dependencies"`
	Runtime      RuntimeInfo `json:"runtime" yaml:"runtime"`
}

type AppInfo struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version,omitempty" yaml:"go_version,omitempty"`
}

type DepInfo struct {
	Gofulmen string `json:"gofulmen" yaml:"gofulmen"`
	Crucible string `json:"crucible" yaml:"crucible"`
}

type RuntimeInfo struct {
	Platform      string `json:"platform" yaml:"platform"`
	NumCPU        int    `json:"num_cpu" yaml:"num_cpu"`
	NumGoroutines int    `json:"num_goroutines" yaml:"num_goroutines"`
}

// CurrentVersion collects build, dependency and runtime versions. The CLI
// version command renders the same structure.
func CurrentVersion() VersionResponse {
	version := crucible.GetVersion()

	return VersionResponse{
		App: AppInfo{
			Name:      AppName,
			Version:   AppVersion,
			Commit:    AppCommit,
			BuildDate: AppBuildDate,
			GoVersion: runtime.Version(),
		},
		Dependencies: DepInfo{
			Gofulmen: version.Gofulmen,
			Crucible: version.Crucible,
		},
		Runtime: RuntimeInfo{
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			NumCPU:        runtime.NumCPU(),
			NumGoroutines: runtime.NumGoroutine(),
		},
	}
}

// VersionHandler serves CurrentVersion as JSON.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentVersion())
}
