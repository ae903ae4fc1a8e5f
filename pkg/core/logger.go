package core

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jba/slog/withsupport"
)

// TimeFormat is the timestamp layout written by ConsoleHandler
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ConsoleHandler is a slog.Handler that writes one line per record:
//
//	<time> <LEVEL> <message> key=value group.key=value
//
// Values containing spaces, quotes or '=' are quoted with strconv.Quote.
type ConsoleHandler struct {
	level slog.Leveler
	with  *withsupport.GroupOrAttrs

	mu *sync.Mutex
	w  io.Writer
}

// NewConsoleHandler creates a handler writing to w. A nil level means slog.LevelInfo.
func NewConsoleHandler(w io.Writer, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{level: level, mu: &sync.Mutex{}, w: w}
}

// NewLogger returns a logger backed by a ConsoleHandler
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewConsoleHandler(w, level))
}

// LoggerOrDefault returns l, or slog.Default() when l is nil
func LoggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) WithAttrs(as []slog.Attr) slog.Handler {
	if len(as) == 0 {
		return h
	}
	h2 := *h
	h2.with = h.with.WithAttrs(as)
	return &h2
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.with = h.with.WithGroup(name)
	return &h2
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	if !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, TimeFormat)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	groups := h.with.Apply(func(groups []string, a slog.Attr) {
		buf = appendAttr(buf, groups, a)
	})
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, groups, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func appendAttr(buf []byte, groups []string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return buf
		}
		// Groups with empty keys are inlined into their parents.
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range attrs {
			buf = appendAttr(buf, groups, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	for _, g := range groups {
		buf = append(buf, g...)
		buf = append(buf, '.')
	}
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(TimeFormat)
	case slog.KindDuration:
		s = v.Duration().Round(time.Microsecond).String()
	default:
		s = v.String()
	}
	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) >= 0
}
