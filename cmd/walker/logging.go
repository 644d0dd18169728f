package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/thomasrohde/walker/pkg/config"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

func newLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(cfg.LogLevel())
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	log.WithField("source", cfg.Source).Debug("config loaded")
	return log
}

// traceSink logs trace events at debug level and, when a path was given,
// appends them to a JSONL file.
type traceSink struct {
	log  logrus.FieldLogger
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
	err  error
}

func newTraceSink(log logrus.FieldLogger, path string) (*traceSink, error) {
	s := &traceSink{log: log}
	if path == "" {
		return s, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.buf = bufio.NewWriter(f)
	s.enc = json.NewEncoder(s.buf)
	return s, nil
}

func (s *traceSink) Emit(ev evaluator.TraceEvent) {
	fields := logrus.Fields{"run_id": ev.RunID, "event": ev.Event}
	if fn, ok := ev.Data["fn"]; ok {
		fields["fn"] = fn
	} else if native, ok := ev.Data["native"]; ok {
		fields["fn"] = native
	}
	if ev.Span != nil && ev.Span.StartLine > 0 {
		fields["line"] = ev.Span.StartLine
	}
	s.log.WithFields(fields).Debug("trace")

	if s.enc != nil && s.err == nil {
		s.err = s.enc.Encode(ev)
	}
}

// Close flushes the trace file and reports the first write error.
func (s *traceSink) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.buf.Flush(); err != nil && s.err == nil {
		s.err = err
	}
	if err := s.file.Close(); err != nil && s.err == nil {
		s.err = err
	}
	return s.err
}
