package main

import (
	"fmt"

	"example.com/sampleapp"
	"example.com/sampleapp/people"
)

func main() {
	g := sampleapp.ConsoleGreeter{Prefix: "[app] "}
	fmt.Println(g.Greet("Katia"))

	e := &people.Employee{Person: sampleapp.Person{Name: "Ada", Age: 41}, Role: "engineer"}
	e.Birthday()
	fmt.Println("DoTwice(+1, 5)=", sampleapp.DoTwice(func(x int) int { return x + 1 }, 5), e.Age)
}
