package container

// Entry describes one registered name.
type Entry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Factory bool   `json:"factory"`
	Frozen  bool   `json:"frozen"`
}

// Describe returns the entry for name.
func (c *Container) Describe(name string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.entries[name]; !ok {
		return Entry{}, notFound("describe", name)
	}
	return c.describe(name), nil
}

// Entries returns an entry per registered name, sorted by name. Nothing is
// resolved.
func (c *Container) Entries() []Entry {
	names := c.Names()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		if _, ok := c.entries[name]; ok {
			out = append(out, c.describe(name))
		}
	}
	return out
}

// describe must hold mu.RLock and name must be registered.
func (c *Container) describe(name string) Entry {
	def := c.entries[name]
	e := Entry{Name: name, Kind: def.kind.String()}
	if def.IsDeferred() {
		_, e.Factory = c.factories[def.id]
	}
	_, e.Frozen = c.frozen[name]
	return e
}
