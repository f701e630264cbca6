// Package people builds on sampleapp.Person.
package people

import "example.com/sampleapp"

// Employee is a Person with a role.
type Employee struct {
	sampleapp.Person

	// Role is the job title.
	Role string
}
