// Package logger exposes the process-wide structured logger.
package logger

import (
	glog "github.com/Laisky/go-utils/v6/log"
)

// Logger is the shared process logger. Request-scoped logging should go
// through gmw.GetLogger(c) instead so entries carry the request id.
var Logger glog.Logger

func init() {
	var err error
	Logger, err = glog.NewConsoleWithName("gateway", glog.LevelInfo)
	if err != nil {
		panic(err)
	}
}

// SetDebug raises the log level to debug for local troubleshooting.
func SetDebug() {
	_ = Logger.ChangeLevel(glog.LevelDebug)
}
