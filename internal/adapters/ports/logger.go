package ports

import "time"

// Logger is the structured logging port used by the gateway adapters.
// pkg/logging provides the zap implementation; test/mocks records calls.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
}

// Field is a structured key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Value: val}
}

// Err attaches err under the "error" key
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
