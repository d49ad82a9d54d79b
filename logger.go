package congsim

//
// Logging
//

// Logger is the logger used throughout this package. It is structurally
// compatible with apex/log's Interface (github.com/apex/log), so a
// *log.Logger or the package-level log.Log can be passed directly by
// callers that already depend on apex/log.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// ReportingFlags is a bitmask selecting which components emit trace lines
// through a [Logger]. The zero value disables all tracing.
type ReportingFlags uint32

const (
	// ReportingSimulator enables per-tick scheduler banners.
	ReportingSimulator ReportingFlags = 1 << iota

	// ReportingLinks enables per-packet link forwarding traces.
	ReportingLinks

	// ReportingRouters enables router enqueue/forward/drop traces.
	ReportingRouters

	// ReportingSenders enables sender congestion-window traces.
	ReportingSenders

	// ReportingReceivers enables receiver ACK-generation traces.
	ReportingReceivers

	// ReportingRTO enables retransmission-timeout traces.
	ReportingRTO
)

// Has reports whether the given flag is set.
func (r ReportingFlags) Has(flag ReportingFlags) bool {
	return r&flag != 0
}
