package llmclient

// Middleware decorates a Client without changing its interface.
type Middleware func(Client) Client

// Wrap applies middlewares so the first one listed is the outermost.
func Wrap(c Client, mws ...Middleware) Client {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
