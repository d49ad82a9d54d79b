package congsim

// mockLogger is a function-field [Logger] double, following this
// codebase's established pattern for mocking small interfaces with
// record-what-you-need closures rather than a generated mock.
type mockLogger struct {
	MockDebugf func(format string, v ...any)
	MockDebug  func(message string)
	MockInfof  func(format string, v ...any)
	MockInfo   func(message string)
	MockWarnf  func(format string, v ...any)
	MockWarn   func(message string)
}

var _ Logger = &mockLogger{}

func (m *mockLogger) Debugf(format string, v ...any) {
	if m.MockDebugf != nil {
		m.MockDebugf(format, v...)
	}
}

func (m *mockLogger) Debug(message string) {
	if m.MockDebug != nil {
		m.MockDebug(message)
	}
}

func (m *mockLogger) Infof(format string, v ...any) {
	if m.MockInfof != nil {
		m.MockInfof(format, v...)
	}
}

func (m *mockLogger) Info(message string) {
	if m.MockInfo != nil {
		m.MockInfo(message)
	}
}

func (m *mockLogger) Warnf(format string, v ...any) {
	if m.MockWarnf != nil {
		m.MockWarnf(format, v...)
	}
}

func (m *mockLogger) Warn(message string) {
	if m.MockWarn != nil {
		m.MockWarn(message)
	}
}
