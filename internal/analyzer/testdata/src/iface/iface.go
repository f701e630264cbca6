// Package iface has an interface and two implementations.
package iface

import "fmt"

// Greeter greets.
type Greeter interface {
	// Greet prints a greeting.
	Greet() // want Greet:"prints a greeting"
}

// A is a Greeter.
type A struct{}

// Greet prints A.
func (A) Greet() { fmt.Println("A") } // want Greet:"prints A"

// B is a Greeter.
type B struct{}

func (B) Greet() { fmt.Println("B") } // want "method iface.B.Greet: MISSING"

func (B) String() string { return "B" } // want "method iface.B.String: MISSING"

// Loud embeds A and inherits its Greet.
type Loud struct{ A }

// Named embeds Greeter.
type Named interface {
	Greeter

	// Name returns the name.
	Name() string // want Name:"returns the name"
}
