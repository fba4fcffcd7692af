package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"drop", ModeDrop},
		{"PLAIN", ModePlain},
		{" mask ", ModeMask},
		{"", ModeMask},
		{"verbose", ModeMask},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), "input %q", tt.in)
	}
}

func TestTextDropWithholdsEverything(t *testing.T) {
	r := NewRedactor(ModeDrop, "clinic-a")

	assert.Equal(t, "[patient text withheld]", r.Text("I have chest pain"))
	assert.Equal(t, "", r.Text(""))
}

func TestTextPlainPassesThrough(t *testing.T) {
	r := NewRedactor(ModePlain, "clinic-a")
	input := "reach me at priya@example.com"

	assert.Equal(t, input, r.Text(input))
}

func TestMaskEmail(t *testing.T) {
	r := NewRedactor(ModeMask, "clinic-a")
	result := r.Text("fever since Monday, reach me at priya.r@example.com please")

	assert.NotContains(t, result, "priya.r@example.com")
	assert.Contains(t, result, "[email:")
	assert.Contains(t, result, "fever since Monday")
}

func TestMaskPhoneGroupings(t *testing.T) {
	r := NewRedactor(ModeMask, "clinic-a")

	tests := []struct {
		name   string
		input  string
		number string
	}{
		{"dashes", "call 555-123-4567 after 6", "555-123-4567"},
		{"dots", "call 555.123.4567 after 6", "555.123.4567"},
		{"plain run", "call 5551234567 after 6", "5551234567"},
		{"five-five", "call 98765 43210 after 6", "98765 43210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Text(tt.input)
			assert.NotContains(t, result, tt.number)
			assert.Contains(t, result, "[phone:")
			assert.Contains(t, result, "call")
			assert.Contains(t, result, "after 6")
		})
	}
}

func TestMaskNationalID(t *testing.T) {
	r := NewRedactor(ModeMask, "clinic-a")

	for _, input := range []string{
		"my ID is 1234 5678 9012",
		"my ID is 1234-5678-9012",
		"my ID is 123456789012",
	} {
		result := r.Text(input)
		assert.NotContains(t, result, "9012", "input %q", input)
		assert.Contains(t, result, "[national-id]", "input %q", input)
	}
}

func TestMaskKeepsClinicalContent(t *testing.T) {
	r := NewRedactor(ModeMask, "clinic-a")
	input := "severe chest pain for 2 days, temp 101.2, call 555-123-4567 or mail raj@example.com"
	result := r.Text(input)

	assert.Contains(t, result, "severe chest pain for 2 days")
	assert.Contains(t, result, "temp 101.2")
	assert.NotContains(t, result, "555-123-4567")
	assert.NotContains(t, result, "raj@example.com")
}

func TestMaskHashIsDeterministicPerSalt(t *testing.T) {
	a := NewRedactor(ModeMask, "clinic-a")
	b := NewRedactor(ModeMask, "clinic-b")

	input := "mail raj@example.com"
	assert.Equal(t, a.Text(input), a.Text(input))
	assert.NotEqual(t, a.Text(input), b.Text(input))
}

func BenchmarkMask(b *testing.B) {
	r := NewRedactor(ModeMask, "clinic-a")
	input := "severe chest pain, call 555-123-4567 or mail raj@example.com, ID 1234 5678 9012"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Text(input)
	}
}
