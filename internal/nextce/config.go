package nextce

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// EquivalenceClass selects how an exclusion formula describes a witness.
type EquivalenceClass int

const (
	ClassPath      EquivalenceClass = 1
	ClassLastTwo   EquivalenceClass = 2
	ClassFirstLast EquivalenceClass = 3
	ClassLast      EquivalenceClass = 4

	DefaultClass = ClassPath
)

func (c EquivalenceClass) Valid() bool {
	return c >= ClassPath && c <= ClassLast
}

func ParseEquivalenceClass(text string) (EquivalenceClass, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidClass, "'%s'", text)
	}
	class := EquivalenceClass(n)
	if !class.Valid() {
		return 0, errors.Wrapf(ErrInvalidClass, "%d", n)
	}
	return class, nil
}

type ClassInfo struct {
	Class       EquivalenceClass
	Title       string
	Description string
}

var ClassInfos = []*ClassInfo{
	{
		ClassPath,
		"Whole path",
		"Every state of the FIPATH is pinned, chained backwards with until from the failing state. Most precise, largest formula.",
	},
	{
		ClassLastTwo,
		"Last transition",
		"The failing state and the state before it, related by the previous-state operator.",
	},
	{
		ClassFirstLast,
		"First and last state",
		"The failing state reached by until from the first state of the FIPATH.",
	},
	{
		ClassLast,
		"Last state",
		"Only the failing state is pinned. Coarsest, smallest formula.",
	},
}

// Config is the process-wide enumeration configuration.
type Config struct {
	class EquivalenceClass
}

func NewConfig() *Config {
	return &Config{class: DefaultClass}
}

func (c *Config) Class() EquivalenceClass {
	return c.class
}

// SetClass changes the active class. Exclusions built under different
// classes cannot be mixed, so reset runs before the value changes.
func (c *Config) SetClass(class EquivalenceClass, reset func()) error {
	if !class.Valid() {
		return errors.Wrapf(ErrInvalidClass, "%d", int(class))
	}
	log.Debugf("setting equivalence class %d", class)
	if reset != nil {
		reset()
	}
	c.class = class
	return nil
}

// Restore sets the class saved by an earlier session, without resetting.
func (c *Config) Restore(class EquivalenceClass) error {
	if !class.Valid() {
		return errors.Wrapf(ErrInvalidClass, "%d", int(class))
	}
	c.class = class
	return nil
}
