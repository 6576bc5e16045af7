package timer

// Tick advances the current run by one second. It has no effect unless the
// timer is running.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.tick(gen)
}
