package logger

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette (warm, muted, easy on eyes)
var gruvbox = struct {
	fg       string
	aqua     string
	orange   string
	yellow   string
	green    string
	purple   string
	red      string
	redBg    string
	yellowBg string
}{
	fg:       "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	aqua:     "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	orange:   "\x1b[38;5;208m", // Warm orange (#fe8019)
	yellow:   "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	green:    "\x1b[38;5;142m", // Muted green (#b8bb26)
	purple:   "\x1b[38;5;175m", // Muted purple (#d3869b)
	red:      "\x1b[38;5;167m", // Warm red (#fb4934)
	redBg:    "\x1b[48;5;88m",  // Dark red background
	yellowBg: "\x1b[48;5;58m",  // Dark yellow background
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  generate  Wrote companion  Models+JsonGen.swift  3 types"
type minimalEncoder struct {
	zapcore.Encoder // Embedded for With() field accumulation
	color           bool
	context         []zapcore.Field
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
		context: append([]zapcore.Field(nil), enc.context...),
	}
}

// AddString and friends are called for fields attached via With(); they are
// kept so EncodeEntry can print them alongside per-entry fields.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.context = append(enc.context, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.context = append(enc.context, zap.Bool(key, value))
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(gruvbox.aqua, ent.Time.Format("15:04:05")))

	// Level: only show for WARN/ERROR/DEBUG
	if level := enc.levelString(ent.Level); level != "" {
		final.AppendString("  ")
		final.AppendString(level)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(gruvbox.orange, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(gruvbox.fg, ent.Message))

	all := append(append([]zapcore.Field(nil), enc.context...), fields...)
	if values := enc.formatFields(all); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return enc.paint(gruvbox.purple, "DEBUG")
	case zapcore.WarnLevel:
		if !enc.color {
			return "WARN"
		}
		return colorBold + gruvbox.yellowBg + gruvbox.yellow + "WARN" + colorReset
	default:
		if !enc.color {
			return level.CapitalString()
		}
		return colorBold + gruvbox.redBg + gruvbox.red + level.CapitalString() + colorReset
	}
}

// formatFields renders well-known fields compactly and every other field as
// key=value, so nothing logged is ever dropped.
//
// Input: {"file": "Models.swift", "count": 3, "duration_ms": 12, "size": 90}
// Output: "Models.swift 3 types 12ms size=90"
func (enc *minimalEncoder) formatFields(fields []zapcore.Field) string {
	var values, rest []string

	for _, field := range fields {
		val, ok := fieldValue(field)
		if !ok {
			continue
		}
		switch field.Key {
		case FieldFile, FieldOutput:
			values = append(values, enc.paint(gruvbox.aqua, val))
		case FieldCount:
			values = append(values, enc.paint(gruvbox.green, val)+" types")
		case FieldDurationMS:
			values = append(values, enc.paint(gruvbox.green, val)+"ms")
		default:
			rest = append(rest, field.Key+"="+val)
		}
	}

	sort.Strings(rest)
	return strings.Join(append(values, rest...), " ")
}

// fieldValue extracts the printable value of a zap field.
func fieldValue(field zapcore.Field) (string, bool) {
	switch field.Type {
	case zapcore.StringType:
		return field.String, true
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", field.Integer), true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", uint64(field.Integer)), true
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1), true
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer))), true
	case zapcore.Float32Type:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(field.Integer))), true
	case zapcore.DurationType:
		return fmt.Sprintf("%dms", field.Integer/1e6), true
	case zapcore.SkipType:
		return "", false
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			return err.Error(), true
		}
		return "", false
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface), true
	}
	return "", false
}
