package context

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/readme"
)

// MockContext provides a mock implementation of Context for testing.
// If a function field is nil, the method returns a default/zero value.
type MockContext struct {
	GeneratorFunc    func(opts GenerateOptions) (*readme.Generator, error)
	SettingsFunc     func() []output.Setting
	WatchFunc        func() WatchSettings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	QuietFunc        func() bool
	VersionFunc      func() string
}

// Generator returns a generator using the mock function or the defaults.
func (m *MockContext) Generator(opts GenerateOptions) (*readme.Generator, error) {
	if m.GeneratorFunc != nil {
		return m.GeneratorFunc(opts)
	}
	return readme.New(), nil
}

// Settings returns settings using the mock function or nil.
func (m *MockContext) Settings() []output.Setting {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return nil
}

// Watch returns watch settings using the mock function or zero values.
func (m *MockContext) Watch() WatchSettings {
	if m.WatchFunc != nil {
		return m.WatchFunc()
	}
	return WatchSettings{}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *MockContext) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Quiet returns the mock value or false.
func (m *MockContext) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// Version returns version using the mock function or "dev".
func (m *MockContext) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

var _ Context = (*MockContext)(nil)
