// Package impl holds the implementation behind public aliases.
package impl

// Thing is the implementation.
type Thing struct {
	// Name is documented.
	Name string
	Size int
}

// Do is documented.
func (Thing) Do() {}

func (Thing) Undone() {}
