package core

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CallerInfo describes the source location of a log call
type CallerInfo struct {
	// File is the absolute path reported by the runtime
	File string
	// FileID is "<package>/<file>.go"
	FileID string
	// Function is the function name without its package path, e.g. "(*Client).Dial"
	Function string
	Line     int
}

// GetCaller retrieves caller information. Skip follows runtime.Caller: 0 is
// the function calling GetCaller.
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}
	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}
	return NewCallerInfo(funcName, file, line)
}

// CallerFromPC resolves a program counter, as carried by slog.Record, into
// a CallerInfo. A zero pc yields the zero CallerInfo.
func CallerFromPC(pc uintptr) CallerInfo {
	if pc == 0 {
		return CallerInfo{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return NewCallerInfo(frame.Function, frame.File, frame.Line)
}

// NewCallerInfo builds a CallerInfo from a fully qualified runtime function
// name such as "github.com/acme/app/net.(*Client).Dial", the absolute file
// path and the line number.
func NewCallerInfo(qualifiedFunc, file string, line int) CallerInfo {
	pkg, fn := splitFuncName(qualifiedFunc)
	c := CallerInfo{
		File:     file,
		Function: fn,
		Line:     line,
	}
	if file != "" {
		if pkg == "" {
			pkg = filepath.Base(filepath.Dir(file))
		}
		c.FileID = pkg + "/" + filepath.Base(file)
	}
	return c
}

// splitFuncName separates the last import path element from the function
// part of a runtime function name.
func splitFuncName(name string) (pkg, fn string) {
	// Type parameters may contain import paths of their own.
	scan := name
	if i := strings.IndexByte(scan, '['); i >= 0 {
		scan = scan[:i]
	}
	start := strings.LastIndexByte(scan, '/') + 1
	dot := strings.IndexByte(scan[start:], '.')
	if dot < 0 {
		return "", name
	}
	return name[start : start+dot], name[start+dot+1:]
}

// ModuleName returns everything before the first path separator of a file
// identifier, or the whole identifier when it has none.
func ModuleName(fileID string) string {
	module, _, _ := strings.Cut(fileID, "/")
	return module
}
