package transform_test

import (
	"errors"
	"math"
	"time"

	"github.com/emirpasic/gods/lists"
	godsmaps "github.com/emirpasic/gods/maps"
)

type Shape interface {
	Area() float64
}

type Polygon interface {
	Shape
	Sides() int
}

type Square struct {
	Side float64
}

func (s Square) Area() float64 { return s.Side * s.Side }
func (s Square) Sides() int     { return 4 }

type Circle struct {
	Radius float64
}

func (c Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

type Celsius float64

type Level int

const (
	LevelLow Level = iota + 1
	LevelHigh
)

func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelHigh:
		return "H"
	default:
		return "?"
	}
}

type Address struct {
	Street string `persist:"street"`
	City   string
}

type Person struct {
	Name    string `persist:"name"`
	Age     int
	Born    time.Time `persist:"born,format=DateOnly"`
	Home    *Address
	Tags    []string `persist:"tags,elem=tag"`
	Level   Level
	Version int `persist:",const"`

	secret string
}

type Record struct {
	ID      int
	Note    *string
	Version int    `persist:",const"`
	Skip    string `persist:"-"`
}

type Holder struct {
	Item any
}

type TrailingHolder struct {
	Item_ any
}

type Animal interface {
	Sound() string
}

type Dog struct {
	Name string
}

func (Dog) Sound() string { return "woof" }

type Zoo struct {
	Pet Animal `persist:",as=freezedry/transform_test.Dog"`
}

type Kennel struct {
	Pets []Animal
}

type Badge struct {
	Label string `persist:",handler=upper"`
}

type Odd struct {
	X int `persist:"x,bogus"`
}

type Chain struct {
	V    int
	Next *Chain
}

type Counter struct {
	Start int
	Step  int
}

func NewCounter() *Counter {
	return &Counter{Step: 1}
}

type Strict struct {
	Name string
}

func NewStrict(name string) (*Strict, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}

	return &Strict{Name: name}, nil
}

type Bag struct {
	Scores lists.List   `persist:"scores,elem=score,types=int"`
	Ranks  godsmaps.Map `persist:"ranks,entry=rank,key=player,value=place,types=string|int"`
}

type Ranked struct {
	Ranks godsmaps.Map `persist:",types=string"`
}

type Base struct {
	ID int
}

type Derived struct {
	Base
	Name string
}

type Levelled struct {
	Level Level `persist:"level,enum=Label"`
}
