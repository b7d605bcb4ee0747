package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"hexdefense-server/pkg/api"
)

// Заполняются линкером:
//
//	go build -ldflags "-X hexdefense-server/internal/version.BuildDate=2026-01-10"
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch - день нулевой сборки. Номер сборки - число дней от него.
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// VersionInfo - ответ /version. Protocol клиент сверяет со своим
// api.ProtocolVersion до подписки на снимки.
type VersionInfo struct {
	BuildID   int    `json:"buildId"`
	BuildDate string `json:"buildDate,omitempty"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	CI        string `json:"ci"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"goVersion"`
	Protocol  int    `json:"protocol"`
	Error     string `json:"error,omitempty"`
}

// Known - удалось ли вычислить номер сборки.
func (v VersionInfo) Known() bool {
	return v.Error == ""
}

// BuildNumber переводит дату сборки в номер: полные дни от эпохи.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Обе даты в UTC, поэтому сутки всегда ровно 24 часа
	return int(t.Sub(buildEpoch) / (24 * time.Hour)), nil
}

// Info собирает метаданные сборки. Если коммит не задан линкером,
// берётся ревизия VCS, которую go build вшивает сам.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
		Protocol:  api.ProtocolVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyVCS(&info, bi.Settings)
	}

	if n, err := BuildNumber(BuildDate); err != nil {
		info.Error = err.Error()
	} else {
		info.BuildID = n
	}

	info.Commit = coalesce(info.Commit, "unknown")
	info.Branch = coalesce(info.Branch, "unknown")
	info.CI = coalesce(info.CI, "local")
	return info
}

func applyVCS(info *VersionInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" && len(s.Value) >= 12 {
				info.Commit = s.Value[:12]
			} else if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
}

// String - строка для лога при старте сервера.
func String() string {
	info := Info()

	build := fmt.Sprintf("hexdefense build %d (%s)", info.BuildID, info.BuildDate)
	if !info.Known() {
		build = fmt.Sprintf("hexdefense build unknown (%s)", info.Error)
	}

	commit := info.Commit
	if info.Dirty {
		commit += "+dirty"
	}

	return fmt.Sprintf("%s commit[%s] branch[%s] ci[%s] protocol[v%d]",
		build, commit, info.Branch, info.CI, info.Protocol)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
