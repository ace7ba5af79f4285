package rules

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quotes and whitespace", "A  B\t\n\"C\"", "A B C"},
		{"plain", "Homo sapiens", "Homo sapiens"},
		{"dashes", "5\u20138 weeks", "5-8 weeks"},
		{"thin and non-breaking space", "10\u2009mg\u00a0dose", "10 mg dose"},
		{"full width parentheses", "liver\uff08left\uff09lobe", "liver (left) lobe"},
		{"line break markup", "first<br>second", "first second"},
		{"self closing markup", "first <br/> second", "first second"},
		{"bold and italic", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"paragraphs", "<p>one</p><P>two</P>", "one two"},
		{"nested markup fragments", "a<b<br>>c", "a c"},
		{"mojibake", "GrÃƒÂ¼n", "Grün"},
		{"control characters", "a\x00b\x1fc", "abc"},
		{"outside BMP", "cell\U0001F600line", "cellline"},
		{"only quotes", `""`, ""},
		{"trim", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanString(tt.in)
			if got != tt.want {
				t.Errorf("CleanString(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := CleanString(got); again != got {
				t.Errorf("CleanString not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCanonicalUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Celcius", "Celsius"},
		{"degrees celsius", "Celsius"},
		{"C", "Celsius"},
		{"yes/no", ""},
		{"M/F", ""},
		{"cells per litre", "cell per liter"},
		{"Days", "day"},
		{"hours", "hour"},
		{"percentage", "percent"},
		{"PSU", "practical salinity unit"},
		{"practicalsalinityscale1978", "practical salinity unit"},
		{"Celsius", "Celsius"},
		{"kelvin", "kelvin"},
		{"mg/L", "mg/L"},
	}

	for _, tt := range tests {
		if got := CanonicalUnit(tt.in); got != tt.want {
			t.Errorf("CanonicalUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsNotApplicable(t *testing.T) {
	for _, v := range []string{"N/A", "na", "Unknown", " none ", "--", ".", "Missing: Not Provided", "[NOT REPORTED]"} {
		if !IsNotApplicable(v) {
			t.Errorf("IsNotApplicable(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"female", "n/a/b", "not", "0"} {
		if IsNotApplicable(v) {
			t.Errorf("IsNotApplicable(%q) = true, want false", v)
		}
	}
}
