package prop

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrNoSuchProperty = errors.New("no such property")

// Database holds the properties of one model, addressed by position or name.
type Database struct {
	props []*Property
}

func NewDatabase() *Database {
	return &Database{
		props: make([]*Property, 0),
	}
}

// Add appends p and returns its index.
func (db *Database) Add(p *Property) int {
	p.index = len(db.props)
	db.props = append(db.props, p)
	return p.index
}

func (db *Database) Len() int {
	return len(db.props)
}

func (db *Database) At(index int) (*Property, error) {
	if index < 0 || index >= len(db.props) {
		return nil, errors.Wrapf(ErrNoSuchProperty, "index %d out of range [0, %d)", index, len(db.props))
	}
	return db.props[index], nil
}

func (db *Database) ByName(name string) (*Property, error) {
	idx := slices.IndexFunc(db.props, func(p *Property) bool { return p.Name == name })
	if idx < 0 {
		return nil, errors.Wrapf(ErrNoSuchProperty, "no property named '%s'", name)
	}
	return db.props[idx], nil
}

// IndexFromString resolves a textual property index.
func (db *Database) IndexFromString(text string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return -1, errors.Wrapf(ErrNoSuchProperty, "'%s' is not a valid property index", text)
	}
	if _, err := db.At(index); err != nil {
		return -1, err
	}
	return index, nil
}

// All returns the properties in ascending index order.
func (db *Database) All() []*Property {
	return slices.Clone(db.props)
}

// Selector picks one property by index or by name, or all of them when
// neither is set.
type Selector struct {
	Index *int
	Name  string
}

func (s Selector) IsAll() bool {
	return s.Index == nil && s.Name == ""
}

// Select resolves the selector. An unknown property is an error and nothing
// is returned.
func (db *Database) Select(s Selector) ([]*Property, error) {
	switch {
	case s.Index != nil && s.Name != "":
		return nil, errors.New("index and name selectors are mutually exclusive")
	case s.Index != nil:
		p, err := db.At(*s.Index)
		if err != nil {
			return nil, err
		}
		return []*Property{p}, nil
	case s.Name != "":
		p, err := db.ByName(s.Name)
		if err != nil {
			return nil, err
		}
		return []*Property{p}, nil
	}
	return db.All(), nil
}
