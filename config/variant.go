package config

import "fmt"

const (
	VariantSmall = "small"
	VariantLarge = "large"
)

// Variant is a named bundle of model limits.
type Variant struct {
	Name          string
	MaxInputChars int
	MaxLength     int
	MinLength     int
}

var variants = map[string]Variant{
	VariantSmall: {
		Name:          "t5-small",
		MaxInputChars: 512,
		MaxLength:     100,
		MinLength:     20,
	},
	VariantLarge: {
		Name:          "sshleifer/distilbart-cnn-12-6",
		MaxInputChars: 1024,
		MaxLength:     150,
		MinLength:     40,
	},
}

// LookupVariant returns the preset registered under name.
func LookupVariant(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// resolve fills unset model fields from the selected variant.
func (m *ModelConfig) resolve() error {
	if m.Variant == "" {
		m.Variant = VariantSmall
	}

	v, ok := LookupVariant(m.Variant)
	if !ok {
		return fmt.Errorf("unknown model variant %q", m.Variant)
	}

	if m.Name == "" {
		m.Name = v.Name
	}
	if m.MaxInputChars == 0 {
		m.MaxInputChars = v.MaxInputChars
	}
	if m.MaxLength == 0 {
		m.MaxLength = v.MaxLength
	}
	if m.MinLength == 0 {
		m.MinLength = v.MinLength
	}

	return nil
}
