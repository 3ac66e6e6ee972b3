// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the package-level logging facade every engine logs
// through. It wraps zerolog with ecszerolog's ECS field formatting, and
// optionally tees to a lumberjack-rotated file sink.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = ecszerolog.New(os.Stderr)
)

// FileConfig configures the optional rotated-file sink.
type FileConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Configure replaces the package logger's output. Passing a non-nil
// FileConfig tees output to a lumberjack-rotated file alongside stderr.
func Configure(level zerolog.Level, fc *FileConfig) {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stderr
	if fc != nil {
		w = zerolog.MultiLevelWriter(os.Stderr, &lumberjack.Logger{
			Filename:   fc.Filename,
			MaxSize:    fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAge:     fc.MaxAgeDays,
		})
	}

	logger = ecszerolog.New(w, ecszerolog.Level(level))
}

func Debugf(format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debug().Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Info().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Error().Msgf(format, v...)
}
