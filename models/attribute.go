package models

import "fmt"

// Attribute is one decrypted column of a record as shown to the user.
type Attribute struct {
	Name string
	// Kind is the cast kind name, e.g. "encrypted:json", or "text".
	Kind  string
	Value string
	Null  bool
}

func (a Attribute) String() string {
	if a.Null {
		return fmt.Sprintf("%s (%s): NULL", a.Name, a.Kind)
	}
	return fmt.Sprintf("%s (%s): %s", a.Name, a.Kind, a.Value)
}
