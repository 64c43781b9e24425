package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const logQueueSize = 1000

type teaProgramProvider interface {
	Send(msg tea.Msg)
}

// LogMsg is one newline-terminated log line, typed for identification as
// [tea.Msg] within a [tea.Program].
type LogMsg string

// TeaLogWriter is an [io.Writer], for use inside a [slog.Handler], that sends
// the lines written to it to a [tea.Program] as [LogMsg], one per line. The
// model caps its backlog by count of these messages, so multi-line records
// must not arrive as one message.
type TeaLogWriter struct {
	program  teaProgramProvider
	doneChan chan struct{}
	logChan  chan LogMsg
}

// NewTeaLogWriter returns a pointer to a new [TeaLogWriter]. It also starts the
// internal log processing function, which should eventually be stopped e.g.
// with a deferred [TeaLogWriter.Stop] call.
func NewTeaLogWriter(program teaProgramProvider) *TeaLogWriter {
	wr := &TeaLogWriter{
		program:  program,
		doneChan: make(chan struct{}),
		logChan:  make(chan LogMsg, logQueueSize),
	}

	go wr.processLogs()

	return wr
}

// Stop destroys the [TeaLogWriter] and stops any log message processing. Any
// in-flight or late logs are discarded after calling this method.
func (wr *TeaLogWriter) Stop() {
	close(wr.doneChan)
}

func (wr *TeaLogWriter) processLogs() {
	for {
		select {
		case <-wr.doneChan:
			return
		case msg := <-wr.logChan:
			select {
			case <-wr.doneChan:
				return
			default:
				wr.program.Send(msg)
			}
		}
	}
}

// Write splits p into lines and queues each one, newline-terminated, for the
// [tea.Program]. After [TeaLogWriter.Stop] it discards p without blocking.
func (wr *TeaLogWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for _, line := range strings.SplitAfter(strings.TrimSuffix(string(p), "\n"), "\n") {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		select {
		case <-wr.doneChan:
			return len(p), nil
		case wr.logChan <- LogMsg(line):
		}
	}

	return len(p), nil
}
