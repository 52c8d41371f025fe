package stage

// RegisterModifier wraps fn and registers it at priority. Keep the
// returned modifier to unregister it later.
func RegisterModifier(reg *Registry, name string, fn ModifierFunc, priority int) (*Modifier, int) {
	mod := NewModifier(name, fn)
	return mod, reg.Register(mod, priority)
}

// UnregisterModifier removes a modifier returned by RegisterModifier.
func UnregisterModifier(reg *Registry, mod *Modifier) error {
	return reg.Unregister(mod)
}
