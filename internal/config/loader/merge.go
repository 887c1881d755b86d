package loader

import (
	"fmt"
)

// ParseError reports a settings file that could not be decoded. Line and
// Column are zero when the decoder gave no position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge overlays src onto dst and returns dst. Nested sections merge
// key by key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for k, v := range src {
		section, ok := v.(map[string]any)
		if existing, isMap := dst[k].(map[string]any); ok && isMap {
			dst[k] = DeepMerge(existing, section)
		} else {
			dst[k] = v
		}
	}

	return dst
}
