package log

import "log/slog"

type deferValue struct {
	eval  func() slog.Value
	cache *slog.Value
}

var _ slog.LogValuer = (*deferValue)(nil)

// LogValue evaluates once, on first use.
func (v *deferValue) LogValue() slog.Value {
	if v.cache == nil {
		value := slog.Value{}
		if v.eval != nil {
			value = v.eval()
		}
		v.cache = &value
	}
	return *v.cache
}

// DeferValue returns a [slog.LogValuer] that calls eval
// only when a record is actually emitted.
func DeferValue(eval func() slog.Value) slog.LogValuer {
	return &deferValue{eval: eval}
}
