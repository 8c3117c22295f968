package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pthm-cable/crawl/components"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetDir  // +1/-1 facing shown as an arrow
	WidgetSpan // components.Bounds shown as a travel span
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"dir":   WidgetDir,
	"span":  WidgetSpan,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect` struct tag.
//
//	`inspect:"bar,max:10"`
//	`inspect:"label,fmt:%.2fs,nonzero"`
//	`inspect:"dir"`
//	`inspect:"skip"`
type Tag struct {
	Widget  Widget
	Format  string  // fmt verb for labels
	Max     float64 // bar full scale, 1 when unset
	NonZero bool    // hide the field while it holds its zero value
	Labels  []string
}

// ParseTag parses an inspect struct tag. Unknown widgets fall back to auto,
// unknown options are ignored.
func ParseTag(tag string) Tag {
	t := Tag{Max: 1}
	if tag == "" {
		return t
	}

	parts := strings.Split(tag, ",")
	t.Widget = widgetNames[strings.TrimSpace(parts[0])]

	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(part), ":")
		switch key {
		case "fmt":
			t.Format = val
		case "max":
			if m, err := strconv.ParseFloat(val, 64); err == nil && m > 0 {
				t.Max = m
			}
		case "nonzero":
			t.NonZero = true
		case "labels":
			t.Labels = strings.Split(val, "|")
		}
	}
	return t
}

// Field is one exported component field ready to draw.
type Field struct {
	Name  string
	Value any
	Tag   Tag
}

// ExtractFields lists the drawable fields of a struct or struct pointer.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := range v.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)

		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetSkip || (tag.NonZero && fv.IsZero()) {
			continue
		}
		if tag.Widget == WidgetAuto {
			tag.Widget = autoWidget(fv)
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Tag: tag})
	}
	return fields
}

var boundsType = reflect.TypeOf(components.Bounds{})

func autoWidget(v reflect.Value) Widget {
	switch {
	case v.Kind() == reflect.Bool:
		return WidgetBool
	case v.Type() == boundsType:
		return WidgetSpan
	case v.Kind() == reflect.Array || v.Kind() == reflect.Slice:
		return WidgetBar
	default:
		return WidgetLabel
	}
}

// Text formats the field for a label.
func (f Field) Text() string {
	return FormatValue(f.Value, f.Tag.Format)
}

// FormatValue formats a value for display. Enums print their names, floats
// default to two decimals.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String()
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case components.Bounds:
		return fmt.Sprintf("[%.0f, %.0f]", v.Min, v.Max)
	default:
		return fmt.Sprint(value)
	}
}

// FloatValue converts any numeric value to float64.
func FloatValue(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return 0, false
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}

// FloatSlice converts an array or slice of floats to []float64.
func FloatSlice(value any) ([]float64, bool) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return nil, false
	}

	out := make([]float64, v.Len())
	for i := range out {
		e := v.Index(i)
		if !e.CanFloat() {
			return nil, false
		}
		out[i] = e.Float()
	}
	return out, true
}
