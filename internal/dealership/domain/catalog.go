package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// BodyType is the body style of a car model.
type BodyType string

const (
	BodySedan BodyType = "sedan"
	BodySUV   BodyType = "suv"
	BodyWagon BodyType = "wagon"
)

const (
	MaxNameRunes        = 30
	MaxDescriptionRunes = 1000
	defaultName         = "None"
)

// BodyTypes lists the accepted body types with their display labels in form order.
var BodyTypes = []struct {
	Value BodyType
	Label string
}{
	{BodySedan, "Sedan"},
	{BodySUV, "SUV"},
	{BodyWagon, "Wagon"},
}

// ParseBodyType normalises input; blank means sedan.
func ParseBodyType(input string) (BodyType, error) {
	switch BodyType(strings.ToLower(strings.TrimSpace(input))) {
	case "", BodySedan:
		return BodySedan, nil
	case BodySUV:
		return BodySUV, nil
	case BodyWagon:
		return BodyWagon, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBodyType, input)
}

// CarMake はメーカー。
type CarMake struct {
	ID          uint
	Name        string
	Description string
	Models      []CarModel
}

func (m CarMake) String() string {
	return "Name: " + m.Name + "," + "Description: " + m.Description
}

// CarModel は車種。MakeID が nil の場合はメーカー未設定。
type CarModel struct {
	ID       uint
	DealerID int
	Name     string
	Type     BodyType
	Year     int
	MakeID   *uint
	MakeName string
}

func (m CarModel) String() string {
	return "Name: " + m.Name + "," + "Type: " + string(m.Type) + "," + "Year: " + strconv.Itoa(m.Year)
}

// NewCarMake validates and normalises make attributes.
func NewCarMake(name, description string) (CarMake, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		return CarMake{}, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidCatalogInput, MaxNameRunes)
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionRunes {
		return CarMake{}, fmt.Errorf("%w: description must be at most %d characters", ErrInvalidCatalogInput, MaxDescriptionRunes)
	}
	return CarMake{Name: name, Description: description}, nil
}

// NewCarModel validates and normalises model attributes.
func NewCarModel(dealerID int, name, bodyType string, year int, makeID *uint) (CarModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		return CarModel{}, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidCatalogInput, MaxNameRunes)
	}
	kind, err := ParseBodyType(bodyType)
	if err != nil {
		return CarModel{}, err
	}
	if year <= 0 {
		return CarModel{}, fmt.Errorf("%w: year must be positive", ErrInvalidCatalogInput)
	}
	return CarModel{DealerID: dealerID, Name: name, Type: kind, Year: year, MakeID: makeID}, nil
}

// CarModelFilter narrows car model listings. Nil fields are ignored.
type CarModelFilter struct {
	MakeID   *uint
	Year     *int
	DealerID *int
	Search   string
}
