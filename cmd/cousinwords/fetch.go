package main

type fetchCmd struct {
	DataConfig
	LogConfig
}

// Run downloads every configured dataset that is missing.
func (c *fetchCmd) Run(e *env) error {
	c.LogConfig.apply()

	var paths []string
	for _, ds := range c.datasets() {
		if ds.url != "" {
			paths = append(paths, ds.path)
		}
	}
	return c.ensure(e.ctx, paths...)
}
