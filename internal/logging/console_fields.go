package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// debugOnlyKeys are hidden from info-level console output.
var debugOnlyKeys = map[string]bool{
	"":                  true,
	"source_row":        true,
	"fingerprint_terms": true,
	"raw_score":         true,
}

func isDebugOnlyKey(key string) bool {
	if debugOnlyKeys[key] {
		return true
	}
	return strings.HasSuffix(key, "_path") && key != "review_path"
}

var fieldLabels = map[string]string{
	FieldAlert:          "Alert",
	FieldEventType:      "Event",
	FieldDecisionType:   "Decision",
	FieldDecisionResult: "Result",
	FieldDecisionReason: "Reason",
	FieldErrorHint:      "Hint",
	FieldImpact:         "Impact",
	"review_path":       "Review File",
	"non_trivial":       "Non-trivial",
	"flagged_missing":   "Missing From Roster",
}

// upperWords are printed in capitals when a key is titleized.
var upperWords = map[string]bool{"id": true, "sha256": true, "csv": true, "xlsx": true}

func displayLabel(key string) string {
	if label, ok := fieldLabels[key]; ok {
		return label
	}
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, word := range words {
		lower := strings.ToLower(word)
		if upperWords[lower] {
			words[i] = strings.ToUpper(lower)
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return formatValue(v)
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().In(time.Local).Format(logTimestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		if values, ok := v.Any().([]string); ok {
			return strings.Join(values, ", ")
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
