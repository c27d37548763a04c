package command

import (
	"sort"
	"sync"
)

// CommandTree manages all top-level commands by name.
type CommandTree struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewTree creates a new empty command tree.
func NewTree() *CommandTree {
	return &CommandTree{commands: make(map[string]Command)}
}

// Register inserts a command. Registering a name twice is a programming
// error.
func (t *CommandTree) Register(cmd Command) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.commands[cmd.Name()]; dup {
		panic("command: duplicate registration of " + cmd.Name())
	}
	t.commands[cmd.Name()] = cmd
}

// Get returns a command by name or alias.
func (t *CommandTree) Get(name string) (Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if cmd, ok := t.commands[name]; ok {
		return cmd, true
	}
	for _, cmd := range t.commands {
		for _, a := range cmd.Aliases() {
			if a == name {
				return cmd, true
			}
		}
	}
	return nil, false
}

// All returns the commands sorted by name.
func (t *CommandTree) All() []Command {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Command, 0, len(t.commands))
	for _, cmd := range t.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
