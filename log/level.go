package log

import (
	"strings"

	"github.com/astaxie/beego/logs"
)

const defaultLogLevel = logs.LevelDebug

var levelMap = map[string]int{
	"emergency":     logs.LevelEmergency,
	"alert":         logs.LevelAlert,
	"critical":      logs.LevelCritical,
	"error":         logs.LevelError,
	"warning":       logs.LevelWarning,
	"warn":          logs.LevelWarn,
	"notice":        logs.LevelNotice,
	"informational": logs.LevelInformational,
	"info":          logs.LevelInfo,
	"debug":         logs.LevelDebug,
	"trace":         logs.LevelTrace,
}

func validLogLevel(level string) (int, bool) {
	ele, ok := levelMap[strings.ToLower(level)]
	return ele, ok
}

// GetLevel maps a level name to its beego level, falling back to debug.
func GetLevel(level string) int {
	ele, ok := validLogLevel(level)
	if !ok {
		return defaultLogLevel
	}
	return ele
}
