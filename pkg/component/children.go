package component

import (
	"sort"

	"github.com/vango-dev/fantoccini/pkg/dom"
)

// AddChild registers child under key. A different child already registered
// under key is unmounted first. When container names an element inside this
// component, the child's root is appended there and the child is mounted;
// otherwise the child stays registered but unmounted.
// Children are unmounted before every re-render and on Unmount.
func (c *Component) AddChild(key string, child *Component, container string) error {
	if err := c.checkAlive("addChild"); err != nil {
		return err
	}
	if err := child.checkAlive("addChild"); err != nil {
		return err
	}

	if existing, ok := c.children[key]; ok && existing != child && existing.Alive() {
		_ = existing.Unmount()
	}
	c.children[key] = child

	if container == "" {
		return nil
	}
	el := c.Query(container)
	if el == nil {
		c.logger.Debug("child container not found, child left unmounted", "key", key, "container", container)
		return nil
	}
	dom.Append(el, child.root)
	child.phase = PhaseMounted
	return child.runOnMount()
}

// Child returns the child registered under key.
func (c *Component) Child(key string) *Component {
	return c.children[key]
}

// ChildKeys returns the keys of all registered children, sorted.
func (c *Component) ChildKeys() []string {
	keys := make([]string, 0, len(c.children))
	for k := range c.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RemoveChild unmounts and forgets the child registered under key.
func (c *Component) RemoveChild(key string) bool {
	child, ok := c.children[key]
	if !ok {
		return false
	}
	delete(c.children, key)
	if child.Alive() {
		_ = child.Unmount()
	}
	return true
}
