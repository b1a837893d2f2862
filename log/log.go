package log

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/astaxie/beego/logs"
)

const logFileName = "xyond.log"

var (
	mlog *logs.BeeLogger

	moduleLock sync.RWMutex
	mapModule  = make(map[string]struct{})
)

type logConfig struct {
	Filename string `json:"filename,omitempty"`
	Level    int    `json:"level"`
	Rotate   bool   `json:"rotate,omitempty"`
	Daily    bool   `json:"daily,omitempty"`
	MaxDays  int64  `json:"maxdays,omitempty"`
}

func init() {
	mlog = logs.NewLogger()
	mlog.EnableFuncCallDepth(true)
	mlog.SetLogFuncCallDepth(3)
	mlog.SetLogger(logs.AdapterConsole, `{"level":4}`)
	mlog.SetLevel(logs.LevelWarning)
}

// Init replaces the active adapters. With an empty dir only the console is
// used; otherwise a daily rotated file is written under dir.
func Init(dir, level string, console bool) error {
	logLevel, ok := validLogLevel(level)
	if !ok {
		return fmt.Errorf("mismatch the logLevel %s", level)
	}

	mlog.DelLogger(logs.AdapterConsole)
	mlog.DelLogger(logs.AdapterFile)
	mlog.SetLevel(logLevel)

	if dir != "" {
		config, err := json.Marshal(logConfig{
			Filename: filepath.Join(dir, logFileName),
			Level:    logLevel,
			Rotate:   true,
			Daily:    true,
			MaxDays:  7,
		})
		if err != nil {
			return err
		}
		if err := mlog.SetLogger(logs.AdapterFile, string(config)); err != nil {
			return err
		}
	}

	if console || dir == "" {
		config, err := json.Marshal(logConfig{Level: logLevel})
		if err != nil {
			return err
		}
		if err := mlog.SetLogger(logs.AdapterConsole, string(config)); err != nil {
			return err
		}
	}
	return nil
}

// SetModules restricts Print to the named modules. An empty list lets every
// module through.
func SetModules(modules []string) {
	moduleLock.Lock()
	defer moduleLock.Unlock()
	mapModule = make(map[string]struct{}, len(modules))
	for _, m := range modules {
		mapModule[strings.ToLower(m)] = struct{}{}
	}
}

func IsIncludeModule(module string) bool {
	moduleLock.RLock()
	defer moduleLock.RUnlock()
	if len(mapModule) == 0 {
		return true
	}
	_, ok := mapModule[strings.ToLower(module)]
	return ok
}

func Print(module string, level string, format string, reason ...interface{}) {
	if !IsIncludeModule(module) {
		return
	}
	format = "[" + module + "] " + format
	switch GetLevel(level) {
	case logs.LevelEmergency:
		mlog.Emergency(format, reason...)
	case logs.LevelAlert:
		mlog.Alert(format, reason...)
	case logs.LevelCritical:
		mlog.Critical(format, reason...)
	case logs.LevelError:
		mlog.Error(format, reason...)
	case logs.LevelWarning:
		mlog.Warning(format, reason...)
	case logs.LevelNotice:
		mlog.Notice(format, reason...)
	case logs.LevelInformational:
		mlog.Informational(format, reason...)
	default:
		mlog.Debug(format, reason...)
	}
}

func GetLogger() *logs.BeeLogger {
	return mlog
}

func Flush() {
	mlog.Flush()
}

func Emergency(format string, v ...interface{}) {
	mlog.Emergency(format, v...)
}

func Alert(format string, v ...interface{}) {
	mlog.Alert(format, v...)
}

func Critical(format string, v ...interface{}) {
	mlog.Critical(format, v...)
}

func Error(format string, v ...interface{}) {
	mlog.Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	mlog.Warn(format, v...)
}

func Notice(format string, v ...interface{}) {
	mlog.Notice(format, v...)
}

func Info(format string, v ...interface{}) {
	mlog.Info(format, v...)
}

func Debug(format string, v ...interface{}) {
	mlog.Debug(format, v...)
}

func Trace(format string, v ...interface{}) {
	mlog.Trace(format, v...)
}
