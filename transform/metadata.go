package transform

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structtag"
)

// TagKey is the struct tag the engine reads member metadata from:
//
//	Name    string    `persist:"name"`
//	Secret  string    `persist:"-"`
//	Version int       `persist:",const"`
//	Born    time.Time `persist:"born,format=DateOnly,parse=DateOnly|RFC3339"`
//	Pets    lists.List `persist:"pets,elem=pet,types=freezedry/store.Dog"`
//	Scores  maps.Map  `persist:",entry=score,key=player,value=points,types=string|int"`
//	Pet     Animal    `persist:",as=*freezedry/store.Dog"`
//	Level   Level     `persist:",enum=Label"`
//	Name    string    `persist:",handler=upper"`
const TagKey = "persist"

// Meta is the metadata of one member.
type Meta struct {
	// Name overrides the persisted name.
	Name   string
	Ignore bool
	// Const marks a compile-time constant: it is encoded only when
	// PersistClassConstants is set and never written on decode.
	Const bool
	// As names the concrete type to instantiate.
	As string
	// Handler names a handler registered with RegisterNamed.
	Handler string

	// Elem names the elements of an array or collection.
	Elem string
	// Entry, Key and Value name the parts of map entries.
	Entry string
	Key   string
	Value string
	// Types names the type arguments of an erased container.
	Types []string

	// Format is the layout time values are encoded with.
	Format string
	// Parse are the layouts tried when decoding time values.
	Parse []string
	// EnumMethod names a string method producing the symbolic name of enum
	// constants.
	EnumMethod string

	// Unknown holds the options that were not recognized.
	Unknown []string
}

// ParseMeta reads the persist key of a struct tag.
func ParseMeta(tag reflect.StructTag) (Meta, error) {
	tags, err := structtag.Parse(string(tag))
	if err != nil {
		return Meta{}, fmt.Errorf("parse tag %q: %w", tag, err)
	}

	if tags == nil {
		return Meta{}, nil
	}

	t, err := tags.Get(TagKey)
	if err != nil {
		// key is absent
		return Meta{}, nil
	}

	return parseOptions(t.Name, t.Options), nil
}

func parseOptions(name string, opts []string) Meta {
	var m Meta
	if name == "-" {
		m.Ignore = true
	} else {
		m.Name = name
	}

	for _, opt := range opts {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "":
		case "ignore":
			m.Ignore = true
		case "const":
			m.Const = true
		case "as":
			m.As = value
		case "handler":
			m.Handler = value
		case "elem":
			m.Elem = value
		case "entry":
			m.Entry = value
		case "key":
			m.Key = value
		case "value":
			m.Value = value
		case "types":
			m.Types = splitList(value)
		case "format":
			m.Format = value
		case "parse":
			m.Parse = splitList(value)
		case "enum":
			m.EnumMethod = value
		default:
			m.Unknown = append(m.Unknown, opt)
		}
	}

	return m
}

func splitList(value string) []string {
	var res []string
	for _, part := range strings.Split(value, "|") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}

	return res
}

// element returns the metadata passed down to the elements of a container.
func (m Meta) element() Meta {
	return Meta{Format: m.Format, Parse: m.Parse, EnumMethod: m.EnumMethod}
}

type memberKey struct {
	owner reflect.Type
	field string
}
