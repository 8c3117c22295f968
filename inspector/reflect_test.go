package inspector

import (
	"testing"

	"github.com/pthm-cable/crawl/components"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Tag
	}{
		{"", Tag{Max: 1}},
		{"bar,max:10", Tag{Widget: WidgetBar, Max: 10}},
		{"bar,max:-2", Tag{Widget: WidgetBar, Max: 1}},
		{"label,fmt:%.2fs", Tag{Widget: WidgetLabel, Format: "%.2fs", Max: 1}},
		{"label,nonzero", Tag{Widget: WidgetLabel, NonZero: true, Max: 1}},
		{"dir", Tag{Widget: WidgetDir, Max: 1}},
		{"skip", Tag{Widget: WidgetSkip, Max: 1}},
		{"sparkline,whatever", Tag{Max: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := ParseTag(tt.tag)
			if got.Widget != tt.want.Widget || got.Format != tt.want.Format ||
				got.Max != tt.want.Max || got.NonZero != tt.want.NonZero {
				t.Errorf("ParseTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestParseTagLabels(t *testing.T) {
	got := ParseTag("bar,labels:F+|F-|B+").Labels
	if len(got) != 3 || got[0] != "F+" || got[2] != "B+" {
		t.Errorf("labels = %v", got)
	}
}

func byName(fields []Field) map[string]Field {
	out := make(map[string]Field, len(fields))
	for _, f := range fields {
		out[f.Name] = f
	}
	return out
}

func TestExtractBehaviorFields(t *testing.T) {
	beh := &components.Behavior{
		State:      components.Scared,
		Direction:  -1,
		DropOffset: 4,
	}
	fields := byName(ExtractFields(beh))

	if f := fields["State"]; f.Text() != "scared" {
		t.Errorf("State text = %q, want scared", f.Text())
	}
	if f := fields["DropOffset"]; f.Tag.Widget != WidgetBar || f.Tag.Max != 10 {
		t.Errorf("DropOffset = %+v, want bar with max 10", f)
	}
	if f := fields["MovementAngle"]; f.Tag.Widget != WidgetAngle {
		t.Errorf("MovementAngle widget = %v, want angle", f.Tag.Widget)
	}
	if f := fields["Direction"]; f.Tag.Widget != WidgetDir {
		t.Errorf("Direction widget = %v, want dir", f.Tag.Widget)
	}
	// Zero-valued nonzero fields are hidden
	if _, ok := fields["GroupID"]; ok {
		t.Error("GroupID shown while ungrouped")
	}
	if _, ok := fields["ScatterTimer"]; ok {
		t.Error("ScatterTimer shown while not scattering")
	}

	beh.GroupID = 3
	fields = byName(ExtractFields(beh))
	if f, ok := fields["GroupID"]; !ok || f.Text() != "3" {
		t.Errorf("GroupID = %+v, %v", f, ok)
	}
}

func TestExtractBodyFields(t *testing.T) {
	body := components.Body{Surface: components.LeftWall, Bounds: components.Bounds{Min: 80, Max: 600}, Exempt: true}
	fields := byName(ExtractFields(body))

	if f := fields["Surface"]; f.Text() != "left_wall" {
		t.Errorf("Surface text = %q", f.Text())
	}
	if f := fields["Bounds"]; f.Tag.Widget != WidgetSpan || f.Text() != "[80, 600]" {
		t.Errorf("Bounds = %+v, text %q", f.Tag, f.Text())
	}
	if f := fields["Exempt"]; f.Tag.Widget != WidgetBool {
		t.Errorf("Exempt widget = %v, want bool", f.Tag.Widget)
	}
}

func TestExtractLegSetSkipsArrays(t *testing.T) {
	legs := &components.LegSet{Count: 2, Upper: 9, Lower: 11}
	fields := byName(ExtractFields(legs))

	for _, name := range []string{"Legs", "Sequence"} {
		if _, ok := fields[name]; ok {
			t.Errorf("%s should be skipped", name)
		}
	}
	if got := fields["Upper"].Text(); got != "9.0" {
		t.Errorf("Upper = %q, want 9.0", got)
	}
	if v, ok := FloatValue(fields["Count"].Value); !ok || v != 2 {
		t.Errorf("Count = %v, %v", v, ok)
	}
}

func TestExtractFieldsNonStruct(t *testing.T) {
	if fields := ExtractFields(42); fields != nil {
		t.Errorf("fields = %v, want nil", fields)
	}
	if fields := ExtractFields(nil); fields != nil {
		t.Errorf("fields = %v, want nil", fields)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value  any
		format string
		want   string
	}{
		{1.5, "", "1.50"},
		{float32(2), "", "2.00"},
		{1.234, "%.2fs", "1.23s"},
		{components.Floor, "", "floor"},
		{components.Grouped, "", "grouped"},
		{uint32(7), "", "7"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.format); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.format, got, tt.want)
		}
	}
}

func TestFloatValue(t *testing.T) {
	tests := []struct {
		value any
		want  float64
		ok    bool
	}{
		{uint8(3), 3, true},
		{int(-2), -2, true},
		{float32(0.5), 0.5, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := FloatValue(tt.value)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FloatValue(%v) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFloatSlice(t *testing.T) {
	got, ok := FloatSlice([3]float64{0.1, 0.5, 1})
	if !ok || len(got) != 3 || got[1] != 0.5 {
		t.Errorf("FloatSlice = %v, %v", got, ok)
	}
	if _, ok := FloatSlice([2]uint8{1, 2}); ok {
		t.Error("uint8 array accepted as float slice")
	}
}

func TestDirArrow(t *testing.T) {
	if dirArrow(1) == dirArrow(-1) {
		t.Error("facings render the same")
	}
	if dirArrow(0) != "none" {
		t.Errorf("dirArrow(0) = %q", dirArrow(0))
	}
}
