//go:build release

package logger

import "testing"

func TestBuildDefaults_Release(t *testing.T) {
	s := DefaultSettings()
	if s.AcceptLevel != WarnLevel || !s.Async {
		t.Errorf("release defaults = level %v async %v, want WARN async", s.AcceptLevel, s.Async)
	}
}
