package stdlib

import (
	"strings"
	"time"

	"github.com/remaplang/remap/internal/config"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Now returns the evaluation clock's current instant in the context
// timezone.
type Now struct{}

func (Now) Identifier() string               { return "now" }
func (Now) Parameters() []function.Parameter { return nil }

func (Now) Compile(_ *expression.State, _ *function.CompileContext, _ function.ArgumentList) (expression.Expression, error) {
	return &nowFn{}, nil
}

func (Now) Examples() []function.Example {
	instant, _ := time.Parse(time.RFC3339, config.ExampleInstant)
	return []function.Example{
		{
			Title:  "now",
			Source: `now()`,
			Want:   &value.Timestamp{Value: instant},
		},
	}
}

func (Now) Call(args function.VMArgumentList) (value.Value, error) {
	return now(args.Context())
}

func now(ctx *expression.Context) (value.Value, error) {
	return &value.Timestamp{Value: ctx.Now().In(ctx.Timezone)}, nil
}

type nowFn struct{}

func (f *nowFn) Resolve(ctx *expression.Context) (value.Value, error) {
	return now(ctx)
}

func (f *nowFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindTimestamp)
}

// FormatTimestamp renders a timestamp with a strftime-style format
// string. Unknown directives are runtime errors, so the function is
// fallible.
type FormatTimestamp struct{}

var formatTimestampParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindTimestamp, Required: true},
	{Keyword: "format", Kinds: typesystem.KindBytes, Required: true},
}

func (FormatTimestamp) Identifier() string               { return "format_timestamp" }
func (FormatTimestamp) Parameters() []function.Parameter { return formatTimestampParams }

func (FormatTimestamp) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &formatTimestampFn{
		value:  args.Required("value"),
		format: args.Required("format"),
	}, nil
}

func (FormatTimestamp) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "date",
			Source: `format_timestamp(t'2021-02-10T23:32:00Z', "%F")`,
			Want:   value.NewBytes("2021-02-10"),
		},
		{
			Title:  "time",
			Source: `format_timestamp(t'2021-02-10T23:32:00Z', "%T")`,
			Want:   value.NewBytes("23:32:00"),
		},
		{
			Title:   "unknown directive",
			Source:  `format_timestamp(t'2021-02-10T23:32:00Z', "%q")`,
			WantErr: "unknown format directive",
		},
	}
}

func (FormatTimestamp) Call(args function.VMArgumentList) (value.Value, error) {
	return formatTimestamp(args.Required("value"), args.Required("format"), args.Context().Timezone)
}

func formatTimestamp(v, format value.Value, tz *time.Location) (value.Value, error) {
	ts, err := value.TryTimestamp(v)
	if err != nil {
		return nil, err
	}
	f, err := value.TryBytesUTF8Lossy(format)
	if err != nil {
		return nil, err
	}
	layout, err := strftimeLayout(f)
	if err != nil {
		return nil, err
	}
	return value.NewBytes(ts.In(tz).Format(layout)), nil
}

type formatTimestampFn struct {
	value  expression.Expression
	format expression.Expression
}

func (f *formatTimestampFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	format, err := f.format.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return formatTimestamp(v, format, ctx.Timezone)
}

func (f *formatTimestampFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(typesystem.KindBytes)
}

// ParseTimestamp parses a byte string with a strftime-style format.
type ParseTimestamp struct{}

var parseTimestampParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "format", Kinds: typesystem.KindBytes, Required: true},
}

func (ParseTimestamp) Identifier() string               { return "parse_timestamp" }
func (ParseTimestamp) Parameters() []function.Parameter { return parseTimestampParams }

func (ParseTimestamp) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &parseTimestampFn{
		value:  args.Required("value"),
		format: args.Required("format"),
	}, nil
}

func (ParseTimestamp) Examples() []function.Example {
	instant, _ := time.Parse(time.RFC3339, config.ExampleInstant)
	return []function.Example{
		{
			Title:  "date and time",
			Source: `parse_timestamp("2021-02-10 23:32:00", "%F %T")`,
			Want:   &value.Timestamp{Value: instant},
		},
		{
			Title:   "mismatched input",
			Source:  `parse_timestamp("not a date", "%F")`,
			WantErr: "unable to parse timestamp",
		},
	}
}

func (ParseTimestamp) Call(args function.VMArgumentList) (value.Value, error) {
	return parseTimestamp(args.Required("value"), args.Required("format"), args.Context().Timezone)
}

func parseTimestamp(v, format value.Value, tz *time.Location) (value.Value, error) {
	s, err := value.TryBytesUTF8Lossy(v)
	if err != nil {
		return nil, err
	}
	f, err := value.TryBytesUTF8Lossy(format)
	if err != nil {
		return nil, err
	}
	layout, err := strftimeLayout(f)
	if err != nil {
		return nil, err
	}
	ts, err := time.ParseInLocation(layout, s, tz)
	if err != nil {
		return nil, value.Errorf("unable to parse timestamp: %v", err)
	}
	return &value.Timestamp{Value: ts}, nil
}

type parseTimestampFn struct {
	value  expression.Expression
	format expression.Expression
}

func (f *parseTimestampFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	format, err := f.format.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return parseTimestamp(v, format, ctx.Timezone)
}

func (f *parseTimestampFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(typesystem.KindTimestamp)
}

// strftimeLayout translates the supported strftime directives into a
// Go reference layout.
func strftimeLayout(format string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", value.Errorf("trailing %% in format string")
		}
		switch format[i] {
		case 'Y':
			out.WriteString("2006")
		case 'm':
			out.WriteString("01")
		case 'd':
			out.WriteString("02")
		case 'H':
			out.WriteString("15")
		case 'M':
			out.WriteString("04")
		case 'S':
			out.WriteString("05")
		case 'F':
			out.WriteString("2006-01-02")
		case 'T':
			out.WriteString("15:04:05")
		case 'z':
			out.WriteString("-0700")
		case 'Z':
			out.WriteString("MST")
		case '%':
			out.WriteByte('%')
		default:
			return "", value.Errorf("unknown format directive %%%c", format[i])
		}
	}
	return out.String(), nil
}
