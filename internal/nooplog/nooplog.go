// Package nooplog provides a logging.Logger that discards everything, used
// as the default when a package is constructed without an explicit logger.
package nooplog

// Logger is a no-op implementation of github.com/ausocean/utils/logging.Logger.
type Logger struct{}

func (Logger) Log(int8, string, ...interface{}) {}
func (Logger) SetLevel(int8)                    {}
func (Logger) Debug(string, ...interface{})     {}
func (Logger) Info(string, ...interface{})      {}
func (Logger) Warning(string, ...interface{})   {}
func (Logger) Error(string, ...interface{})     {}
func (Logger) Fatal(string, ...interface{})     {}
