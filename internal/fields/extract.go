package fields

import "situation-analyzer/internal/docintel"

// Extracted is a normalized amount with its confidence; nil means absent.
type Extracted struct {
	Value      *float64
	Confidence *float64
}

// ExtractedText is a string value with its confidence; nil means absent.
type ExtractedText struct {
	Value      *string
	Confidence *float64
}

// ExtractAmount reads the amount at p. The confidence is reported whenever
// the field exists, even if its value could not be parsed.
func ExtractAmount(fields map[string]docintel.Field, p Path) Extracted {
	f, ok := Lookup(fields, p)
	if !ok {
		return Extracted{}
	}
	out := Extracted{Confidence: f.Confidence}
	switch {
	case f.ValueString != nil:
		if v, ok := NormalizeAmount(*f.ValueString); ok {
			out.Value = &v
		}
	case f.ValueNumber != nil:
		v := *f.ValueNumber
		out.Value = &v
	}
	return out
}

// ExtractText reads the string value at p. Empty strings count as absent.
func ExtractText(fields map[string]docintel.Field, p Path) ExtractedText {
	f, ok := Lookup(fields, p)
	if !ok {
		return ExtractedText{}
	}
	out := ExtractedText{Confidence: f.Confidence}
	if f.ValueString != nil && *f.ValueString != "" {
		v := *f.ValueString
		out.Value = &v
	}
	return out
}
