package intent

// Context is the single remembered tag that biases the next resolution.
// The zero value holds no tag.
type Context struct {
	tag string
}

// Get returns the current tag and whether one is set.
func (c *Context) Get() (string, bool) {
	return c.tag, c.tag != ""
}

// Tag returns the current tag, "" when none is set.
func (c *Context) Tag() string { return c.tag }

// Set replaces the tag. An empty tag clears it.
func (c *Context) Set(tag string) { c.tag = tag }

// Clear removes the tag.
func (c *Context) Clear() { c.tag = "" }
