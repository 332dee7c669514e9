// Package main demonstrates the mapping engine on a small domain model:
// configure renames for a pair, map a populated source graph, and print
// both the resulting value and the plan the engine executed.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"automapper/mapper"
)

type Status int

const (
	StatusInactive Status = iota
	StatusActive
	StatusSuspended
)

type Address struct {
	Street  string
	City    string
	ZipCode string
}

type Skill struct {
	Name              string
	YearsOfExperience int
}

type Person struct {
	Name     string
	Age      int
	Birthday time.Time
	Address  *Address
	Skills   []Skill
	Status   Status
}

type UserStatus int

type AddressDTO struct {
	Street     string
	City       string
	PostalCode string
}

type SkillDTO struct {
	Title      string
	Experience int
}

type PersonDTO struct {
	FullName    string
	Age         int
	DateOfBirth time.Time
	HomeAddress *AddressDTO
	Abilities   []SkillDTO
	UserStatus  UserStatus
}

func main() {
	m := mapper.New()

	err := mapper.Configure[Person, PersonDTO](m).
		ForMember(func(d *PersonDTO) any { return &d.FullName }, func(s *Person) any { return &s.Name }).
		ForMember(func(d *PersonDTO) any { return &d.DateOfBirth }, func(s *Person) any { return &s.Birthday }).
		ForMember(func(d *PersonDTO) any { return &d.HomeAddress }, func(s *Person) any { return &s.Address }).
		ForMember(func(d *PersonDTO) any { return &d.Abilities }, func(s *Person) any { return &s.Skills }).
		ForMember(func(d *PersonDTO) any { return &d.UserStatus }, func(s *Person) any { return &s.Status }).
		Err()
	if err != nil {
		fmt.Println("configure person:", err)
		os.Exit(1)
	}

	err = mapper.Configure[Address, AddressDTO](m).
		ForMember(func(d *AddressDTO) any { return &d.PostalCode }, func(s *Address) any { return &s.ZipCode }).
		Err()
	if err != nil {
		fmt.Println("configure address:", err)
		os.Exit(1)
	}

	err = mapper.Configure[Skill, SkillDTO](m).
		ForMember(func(d *SkillDTO) any { return &d.Title }, func(s *Skill) any { return &s.Name }).
		ForMember(func(d *SkillDTO) any { return &d.Experience }, func(s *Skill) any { return &s.YearsOfExperience }).
		Err()
	if err != nil {
		fmt.Println("configure skill:", err)
		os.Exit(1)
	}

	person := Person{
		Name:     "Ada Lovelace",
		Age:      36,
		Birthday: time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC),
		Address:  &Address{Street: "12 St James's Square", City: "London", ZipCode: "SW1Y 4JH"},
		Skills: []Skill{
			{Name: "analytical engines", YearsOfExperience: 9},
			{Name: "mathematics", YearsOfExperience: 20},
		},
		Status: StatusActive,
	}

	dto, err := mapper.Map[PersonDTO](m, person)
	if err != nil {
		fmt.Println("map person:", err)
		os.Exit(1)
	}

	spew.Dump(dto)

	report, err := mapper.Explain[Person, PersonDTO](m)
	if err != nil {
		fmt.Println("explain:", err)
		os.Exit(1)
	}

	fmt.Print(report)
}
