package ratelimit

import "strings"

// Match returns the rule for a request. Exact paths win over prefixes; nil means
// the default limit applies.
func (c *Config) Match(method, path string) *Rule {
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Method == method && r.Path == path {
			return r
		}
	}
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}
