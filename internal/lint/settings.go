package lint

// Settings is the content of .svlint.toml.
type Settings struct {
	Option Option          `toml:"option"`
	Rules  map[string]bool `toml:"rules"`
}

type Option struct {
	// IgnoreInclude skips `include directives instead of resolving them.
	IgnoreInclude bool `toml:"ignore_include"`
}

// EnableAll returns settings with every rule of the catalog turned on.
func EnableAll() Settings {
	rules := make(map[string]bool, len(registry))
	for _, name := range RuleNames() {
		rules[name] = true
	}
	return Settings{Rules: rules}
}

// Enabled reports whether the rule name is turned on. Rules absent from the
// table are off.
func (s Settings) Enabled(name string) bool {
	return s.Rules[name]
}
