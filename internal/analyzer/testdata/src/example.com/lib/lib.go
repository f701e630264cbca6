// Package lib is documented.
package lib

// Foo is documented.
type Foo struct{}

// Bar is documented.
func (Foo) Bar() {} // want Bar:"Bar is documented"

func (Foo) Baz() {} // want "method example.com/lib.Foo.Baz: MISSING"

//
type Empty struct{} // want "class example.com/lib.Empty: EMPTY"

// Base is documented.
type Base struct{}

// Method is documented on Base.
func (Base) Method() {} // want Method:"documented on Base"

// Sub embeds Base.
type Sub struct{ Base } // want "method example.com/lib.Sub.Method: INHERITED_ONLY"

// Sub2 embeds Base and overrides Method.
type Sub2 struct{ Base }

// Method is documented on Sub2.
func (Sub2) Method() {} // want Method:"documented on Sub2"

// Shape is an interface.
type Shape interface{ Area() float64 } // want "method example.com/lib.Shape.Area: MISSING"

func Undocumented() {} // want "function example.com/lib.Undocumented: MISSING"

// Greeting is documented.
const Greeting = "hi"

// S has undocumented fields.
type S struct{ X, Y int } // want "property example.com/lib.S.X: MISSING" "property example.com/lib.S.Y: MISSING"

// String is a protocol method and is not checked.
func (S) String() string { return "" } // want String:"protocol method"

// Err is an error.
type Err struct{}

func (Err) Error() string { return "err" }

func helper() {}
