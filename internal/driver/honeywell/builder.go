// internal/driver/honeywell/builder.go
package honeywell

// CommandBuilder accumulates ESC/POS commands for a job before they are
// flushed into the driver sink.
type CommandBuilder struct {
	cmds []byte
}

func NewCommandBuilder() *CommandBuilder {
	return &CommandBuilder{}
}

// Append adds commands in order and returns the builder for chaining
func (b *CommandBuilder) Append(cmds ...[]byte) *CommandBuilder {
	for _, c := range cmds {
		b.cmds = append(b.cmds, c...)
	}
	return b
}

// AppendIf appends cmd only when cond holds
func (b *CommandBuilder) AppendIf(cond bool, cmd []byte) *CommandBuilder {
	if cond {
		b.cmds = append(b.cmds, cmd...)
	}
	return b
}

func (b *CommandBuilder) Len() int {
	return len(b.cmds)
}

// Bytes returns the accumulated commands. The slice is only valid until the
// next Append or Clear.
func (b *CommandBuilder) Bytes() []byte {
	return b.cmds
}

func (b *CommandBuilder) Clear() {
	b.cmds = b.cmds[:0]
}
