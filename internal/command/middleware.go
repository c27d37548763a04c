package command

// Middleware decorates a Command, typically to prepare ctx before Run.
type Middleware func(Command) Command

// WrappedCommand keeps the metadata and flags of the inner command and
// replaces only its Run.
type WrappedCommand struct {
	Command
	Wrap func(ctx *Context) error
}

func (w *WrappedCommand) Run(ctx *Context) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// ApplyMiddlewares wraps cmd in order, so the last middleware runs first.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}
