package model

// U8Bool is a boolean flag stored as a single byte.
type U8Bool uint8

// Bool reports whether the flag is set. Any nonzero byte is true.
func (b U8Bool) Bool() bool {
	return b != 0
}

// Set stores v as 1 or 0.
func (b *U8Bool) Set(v bool) {
	if v {
		*b = 1
		return
	}
	*b = 0
}

// SetTrue sets the flag.
func (b *U8Bool) SetTrue() { *b = 1 }

// SetFalse clears the flag.
func (b *U8Bool) SetFalse() { *b = 0 }
