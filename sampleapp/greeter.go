// Package sampleapp is a tiny library used to exercise docanalyzer-go.
package sampleapp

import (
	"fmt"

	"example.com/sampleapp/internal/clock"
)

// Greeter is a tiny example interface.
type Greeter interface {
	Greet(name string) string
}

// ConsoleGreeter prints greetings with a prefix.
type ConsoleGreeter struct {
	Prefix string
}

// Greet implements Greeter.
func (c ConsoleGreeter) Greet(name string) string {
	if name == "" {
		name = "world"
	}
	return fmt.Sprintf("%sHello, %s! (%d)", c.Prefix, name, clock.Now())
}
