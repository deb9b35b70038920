// Copyright (C) 2025  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package sdm3045x

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel type defines the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone // disables logging
)

// LevelToString maps LogLevel to its string representation.
var LevelToString = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
	LevelNone:    "NONE",
}

// StringToLevel maps string representation of LogLevel to its value.
var StringToLevel = map[string]LogLevel{
	"DEBUG":   LevelDebug,
	"INFO":    LevelInfo,
	"WARNING": LevelWarning,
	"ERROR":   LevelError,
	"NONE":    LevelNone,
}

// SimpleLogger implements io.WriteCloser and supports setting log level.
// The level of each message is inferred from its "DEBUG:"/"INFO:"/... prefix.
type SimpleLogger struct {
	mu     sync.Mutex
	level  LogLevel
	output io.WriteCloser
	prefix string
}

// NewSimpleLogger creates a new SimpleLogger instance.
// If output is nil, it defaults to os.Stdout.
func NewSimpleLogger(output io.WriteCloser, level LogLevel, prefix string) *SimpleLogger {
	if output == nil {
		output = os.Stdout
	}
	return &SimpleLogger{
		level:  level,
		output: output,
		prefix: prefix,
	}
}

// SetLevel sets the logging level of the SimpleLogger.
func (l *SimpleLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level of the SimpleLogger.
func (l *SimpleLogger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevelFromString sets the logging level from a string representation (e.g. "DEBUG").
func (l *SimpleLogger) SetLevelFromString(levelStr string) error {
	if level, ok := StringToLevel[strings.ToUpper(levelStr)]; ok {
		l.SetLevel(level)
		return nil
	}
	return fmt.Errorf("invalid log level: %s", levelStr)
}

// Write implements the io.Writer interface. It filters log messages
// based on the set level.
func (l *SimpleLogger) Write(p []byte) (n int, err error) {
	message := string(p)
	level := determineLevel(message)

	if level < l.GetLevel() || l.GetLevel() == LevelNone {
		return len(p), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.output
	if out == nil {
		out = os.Stdout
	}
	timestamp := time.Now().Format(time.RFC3339)
	formatted := fmt.Sprintf("%s [%s] <%s> %s\n",
		timestamp, LevelToString[level], l.prefix, strings.TrimSpace(message))
	return out.Write([]byte(formatted))
}

// Close implements the io.Closer interface. It closes the underlying
// output if it's not os.Stdout.
func (l *SimpleLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.output != nil && l.output != os.Stdout {
		return l.output.Close()
	}
	return nil
}

// determineLevel infers the log level from the message prefix,
// defaulting to LevelInfo.
func determineLevel(message string) LogLevel {
	upper := strings.ToUpper(message)
	switch {
	case strings.HasPrefix(upper, "DEBUG:") || strings.HasPrefix(upper, "[DEBUG]"):
		return LevelDebug
	case strings.HasPrefix(upper, "INFO:") || strings.HasPrefix(upper, "[INFO]"):
		return LevelInfo
	case strings.HasPrefix(upper, "WARNING:") || strings.HasPrefix(upper, "[WARNING]"):
		return LevelWarning
	case strings.HasPrefix(upper, "ERROR:") || strings.HasPrefix(upper, "[ERROR]"):
		return LevelError
	}
	return LevelInfo
}
