package mail

import "strings"

// Person is keyed by Email across the whole graph. Name is only written when
// the node is first created.
type Person struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

const PersonLabel = "Person"

func (p Person) Normalized() Person {
	return Person{
		Email: strings.TrimSpace(p.Email),
		Name:  strings.TrimSpace(p.Name),
	}
}
