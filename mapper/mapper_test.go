package mapper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automapper/mapper"
)

type Status int

const (
	StatusInactive Status = iota
	StatusActive
	StatusSuspended
)

type UserStatus int

func (s UserStatus) IsValid() bool {
	return s >= UserStatus(StatusInactive) && s <= UserStatus(StatusSuspended)
}

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

func personMapper(t *testing.T) *mapper.Mapper {
	t.Helper()

	m := mapper.New()

	err := mapper.Configure[Person, PersonDTO](m).
		ForMember(func(d *PersonDTO) any { return &d.FullName }, func(s *Person) any { return &s.Name }).
		ForMember(func(d *PersonDTO) any { return &d.DateOfBirth }, func(s *Person) any { return &s.Birthday }).
		ForMember(func(d *PersonDTO) any { return &d.HomeAddress }, func(s *Person) any { return &s.Address }).
		ForMember(func(d *PersonDTO) any { return &d.Abilities }, func(s *Person) any { return &s.Skills }).
		ForMember(func(d *PersonDTO) any { return &d.UserStatus }, func(s *Person) any { return &s.Status }).
		Err()
	require.NoError(t, err)

	err = mapper.Configure[Address, AddressDTO](m).
		ForMember(func(d *AddressDTO) any { return &d.PostalCode }, func(s *Address) any { return &s.ZipCode }).
		Err()
	require.NoError(t, err)

	err = mapper.Configure[Skill, SkillDTO](m).
		ForMember(func(d *SkillDTO) any { return &d.Title }, func(s *Skill) any { return &s.Name }).
		ForMember(func(d *SkillDTO) any { return &d.Experience }, func(s *Skill) any { return &s.YearsOfExperience }).
		Err()
	require.NoError(t, err)

	return m
}

func samplePerson() Person {
	return Person{
		Name:     "Grace Hopper",
		Age:      85,
		Birthday: time.Date(1906, time.December, 9, 0, 0, 0, 0, time.UTC),
		Address:  &Address{Street: "1 Navy Yard", City: "Arlington", ZipCode: "22202"},
		Skills: []Skill{
			{Name: "compilers", YearsOfExperience: 40},
			{Name: "debugging", YearsOfExperience: 45},
		},
		Status: StatusActive,
	}
}

func TestMapFullGraph(t *testing.T) {
	m := personMapper(t)
	p := samplePerson()

	dto, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)

	assert.Equal(t, "Grace Hopper", dto.FullName)
	assert.Equal(t, 85, dto.Age)
	assert.True(t, p.Birthday.Equal(dto.DateOfBirth))

	require.NotNil(t, dto.HomeAddress)
	assert.Equal(t, "1 Navy Yard", dto.HomeAddress.Street)
	assert.Equal(t, "Arlington", dto.HomeAddress.City)
	assert.Equal(t, "22202", dto.HomeAddress.PostalCode)

	require.Len(t, dto.Abilities, 2)
	assert.Equal(t, SkillDTO{Title: "compilers", Experience: 40}, dto.Abilities[0])
	assert.Equal(t, SkillDTO{Title: "debugging", Experience: 45}, dto.Abilities[1])

	assert.Equal(t, UserStatus(StatusActive), dto.UserStatus)
}

func TestMapIsIdempotent(t *testing.T) {
	m := personMapper(t)
	p := samplePerson()

	first, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)

	second, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMapDoesNotAliasSource(t *testing.T) {
	m := personMapper(t)
	p := samplePerson()

	dto, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)

	dto.HomeAddress.City = "mutated"
	dto.Abilities[0].Title = "mutated"

	assert.Equal(t, "Arlington", p.Address.City)
	assert.Equal(t, "compilers", p.Skills[0].Name)
}

func TestMapNilAndDefaults(t *testing.T) {
	m := personMapper(t)

	dto, err := mapper.Map[PersonDTO](m, Person{Name: "solo"})
	require.NoError(t, err)

	assert.Equal(t, "solo", dto.FullName)
	assert.Nil(t, dto.HomeAddress)
	assert.Nil(t, dto.Abilities)

	dto, err = mapper.Map[PersonDTO](m, (*Person)(nil))
	require.NoError(t, err)
	assert.Equal(t, PersonDTO{}, dto)

	dto, err = mapper.Map[PersonDTO](m, nil)
	require.NoError(t, err)
	assert.Equal(t, PersonDTO{}, dto)
}

func TestMapRejectsNonStructs(t *testing.T) {
	m := mapper.New()

	_, err := mapper.Map[PersonDTO](m, 42)
	assert.ErrorIs(t, err, mapper.ErrNotAStruct)

	_, err = mapper.Map[int](m, Person{})
	assert.ErrorIs(t, err, mapper.ErrNotAStruct)
}

func TestMapperInstancesAreIsolated(t *testing.T) {
	full := personMapper(t)

	restricted := personMapper(t)
	err := mapper.Configure[Person, PersonDTO](restricted).
		Ignore(func(d *PersonDTO) any { return &d.HomeAddress }).
		Err()
	require.NoError(t, err)

	p := samplePerson()

	dto, err := mapper.Map[PersonDTO](restricted, p)
	require.NoError(t, err)
	assert.Nil(t, dto.HomeAddress)

	dto, err = mapper.Map[PersonDTO](full, p)
	require.NoError(t, err)
	assert.NotNil(t, dto.HomeAddress, "ignore rules must not leak across mappers")
}

func TestRuleChangeInvalidatesCachedRoutine(t *testing.T) {
	m := personMapper(t)
	p := samplePerson()

	dto, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)
	assert.Equal(t, 85, dto.Age)

	err = mapper.Configure[Person, PersonDTO](m).
		Ignore(func(d *PersonDTO) any { return &d.Age }).
		Err()
	require.NoError(t, err)

	dto, err = mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)
	assert.Equal(t, 0, dto.Age, "later mappings observe the new rule")
}

func TestMapAll(t *testing.T) {
	m := personMapper(t)

	people := []Person{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	}

	dtos, err := mapper.MapAll[PersonDTO](m, people)
	require.NoError(t, err)
	require.Len(t, dtos, 3)
	assert.Equal(t, "first", dtos[0].FullName)
	assert.Equal(t, "second", dtos[1].FullName)
	assert.Equal(t, "third", dtos[2].FullName)

	dtos, err = mapper.MapAll[PersonDTO, Person](m, nil)
	require.NoError(t, err)
	assert.Nil(t, dtos)
}

func TestEnumValidation(t *testing.T) {
	m := personMapper(t)

	dto, err := mapper.Map[PersonDTO](m, Person{Status: Status(99)})
	require.NoError(t, err)
	assert.Equal(t, UserStatus(0), dto.UserStatus)

	strict := mapper.New(mapper.WithStrict())

	err = mapper.Configure[Person, PersonDTO](strict).
		ForMember(func(d *PersonDTO) any { return &d.UserStatus }, func(s *Person) any { return &s.Status }).
		Err()
	require.NoError(t, err)

	_, err = mapper.Map[PersonDTO](strict, Person{Status: Status(99)})
	assert.Error(t, err)
}

func TestRegisterCaster(t *testing.T) {
	m := personMapper(t)

	require.NoError(t, m.RegisterCaster(func(s Status) UserStatus {
		return UserStatus(StatusSuspended)
	}))

	dto, err := mapper.Map[PersonDTO](m, samplePerson())
	require.NoError(t, err)
	assert.Equal(t, UserStatus(StatusSuspended), dto.UserStatus)

	assert.Error(t, m.RegisterCaster("not a function"))
}

func TestLoadRules(t *testing.T) {
	doc := []byte(`
mappings:
  - source: mapper_test.Person
    target: mapper_test.PersonDTO
    fields:
      Name: FullName
      Birthday: DateOfBirth
      Status: UserStatus
    ignore:
      - HomeAddress
      - Abilities
`)

	m := mapper.New()
	require.NoError(t, m.RegisterTypes(Person{}, PersonDTO{}))
	require.NoError(t, m.LoadRules(doc))

	p := samplePerson()

	dto, err := mapper.Map[PersonDTO](m, p)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", dto.FullName)
	assert.True(t, p.Birthday.Equal(dto.DateOfBirth))
	assert.Equal(t, UserStatus(StatusActive), dto.UserStatus)
	assert.Nil(t, dto.HomeAddress)
	assert.Nil(t, dto.Abilities)
}

func TestLoadRulesFailures(t *testing.T) {
	m := mapper.New()

	assert.Error(t, m.LoadRules([]byte("version: \"1\"\n")))

	doc := []byte(`
mappings:
  - source: mapper_test.Person
    target: mapper_test.PersonDTO
`)
	assert.Error(t, m.LoadRules(doc), "unregistered types must fail")
}

func TestExplain(t *testing.T) {
	m := personMapper(t)

	err := mapper.Configure[Person, PersonDTO](m).
		IgnoreName("Age").
		Err()
	require.NoError(t, err)

	report, err := mapper.Explain[Person, PersonDTO](m)
	require.NoError(t, err)

	assert.Contains(t, report.Pair, "Person")

	targets := make(map[string]mapper.StepInfo)
	for _, s := range report.Steps {
		targets[s.Target] = s
	}

	require.Contains(t, targets, "FullName")
	assert.Equal(t, "Name", targets["FullName"].Source)
	assert.Equal(t, "direct_assign", targets["FullName"].Strategy)

	require.Contains(t, targets, "UserStatus")
	assert.Equal(t, "enum_coerce", targets["UserStatus"].Strategy)

	require.Len(t, report.Unmapped, 1)
	assert.Equal(t, "Age", report.Unmapped[0].Name)
	assert.Equal(t, "ignored by configuration", report.Unmapped[0].Reason)

	assert.Contains(t, report.String(), "FullName <- Name")
}
