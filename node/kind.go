package node

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // zero value is an invalid kind

	KindRoot
	KindCompound
	KindLeaf

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
