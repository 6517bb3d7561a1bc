package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// prettyHandler prints one headline per record followed by an indented
// field list, for example:
//
//	2024-03-01 10:00:00 INFO [reconcile] Run 1a2b3c4d (decisions) – buckets assigned
//	    - Pending: 2
type prettyHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	// prefix holds attributes bound through WithAttrs, already flattened.
	prefix []field
	groups []string
}

type field struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &prettyHandler{mu: new(sync.Mutex), w: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := append([]field(nil), h.prefix...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFlattened(fields, h.groups, attr)
		return true
	})
	fields = lastValueWins(fields)

	var component, runID, stage string
	body := fields[:0:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
		case FieldRunID:
			runID = attrString(f.value)
		case FieldStage:
			stage = attrString(f.value)
		default:
			body = append(body, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.Local().Format(logTimestampLayout))
	b.WriteString(" " + levelLabel(record.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := composeSubject(runID, stage); subject != "" {
		b.WriteString(" " + subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – " + msg)
	if h.addSource {
		if src := record.Source(); src != nil {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	b.WriteByte('\n')

	// Debug records keep raw keys so they can be grepped against JSON logs.
	debug := record.Level < slog.LevelInfo
	for _, f := range body {
		switch {
		case debug:
			b.WriteString("    " + f.key + ": " + formatValue(f.value) + "\n")
		case !isDebugOnlyKey(f.key):
			b.WriteString("    - " + displayLabel(f.key) + ": " + formatValue(f.value) + "\n")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.prefix = append([]field(nil), h.prefix...)
	for _, attr := range attrs {
		next.prefix = appendFlattened(next.prefix, h.groups, attr)
	}
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// composeSubject renders the "Run 1a2b3c4d (stage)" part of a headline.
func composeSubject(runID, stage string) string {
	runID = strings.TrimSpace(runID)
	stage = strings.TrimSpace(stage)
	if len(runID) > 8 {
		runID = runID[:8]
	}
	switch {
	case runID == "":
		return stage
	case stage == "":
		return "Run " + runID
	default:
		return "Run " + runID + " (" + stage + ")"
	}
}

// lastValueWins collapses repeated keys in place of their first occurrence.
func lastValueWins(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, seen := index[f.key]; seen {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func appendFlattened(dst []field, groups []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(append([]string(nil), groups...), attr.Key)
		}
		for _, member := range value.Group() {
			dst = appendFlattened(dst, inner, member)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(dst, field{key: key, value: value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
