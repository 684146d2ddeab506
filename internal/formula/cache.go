package formula

import "log/slog"

// Cache memoizes compilation by raw source text. A system build uses one
// fresh cache so identical right-hand sides share a program and nothing
// is recompiled per step.
type Cache struct {
	exprs map[string]*Expr
}

func NewCache() *Cache {
	return &Cache{exprs: make(map[string]*Expr)}
}

// Get returns the compiled form of src, compiling on first sight.
// Unparseable sources resolve to Zero after a warning and stay resolved,
// so the warning fires once per build rather than once per step.
func (c *Cache) Get(src string) *Expr {
	if e, ok := c.exprs[src]; ok {
		return e
	}
	e, err := Compile(src)
	if err != nil {
		slog.Warn("expression rejected, using 0", "err", err)
		e = Zero
	}
	c.exprs[src] = e
	return e
}

// Len reports how many distinct sources have been compiled.
func (c *Cache) Len() int { return len(c.exprs) }
