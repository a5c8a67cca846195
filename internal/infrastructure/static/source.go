package static

import "context"

// Source serves fixed config lists, used when no admin database is configured
type Source struct {
	harmful  []string
	keywords map[string][]string
}

// NewSource copies the given lists so callers cannot change them later
func NewSource(harmful []string, keywords map[string][]string) *Source {
	s := &Source{
		harmful:  append([]string(nil), harmful...),
		keywords: make(map[string][]string, len(keywords)),
	}
	for code, list := range keywords {
		s.keywords[code] = append([]string(nil), list...)
	}
	return s
}

// HarmfulIngredients returns a copy of the harmful list
func (s *Source) HarmfulIngredients(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string{}, s.harmful...), nil
}

// AllergenKeywords returns a copy of the keyword table
func (s *Source) AllergenKeywords(ctx context.Context) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(s.keywords))
	for code, list := range s.keywords {
		out[code] = append([]string(nil), list...)
	}
	return out, nil
}
