// Package strategy 实现性质调度的策略
package strategy

import (
	"nextce/internal/prop"

	"github.com/pkg/errors"
)

// Strategy is the worklist of properties still being enumerated.
type Strategy interface {
	Size() int
	HasNext() bool
	Pop() (*prop.Property, error)
	Push(...*prop.Property) error
}

// New returns the strategy called name, dfs when name is empty.
func New(name string) (Strategy, error) {
	switch name {
	case "", "dfs":
		return NewDFS(), nil
	case "bfs":
		return NewBFS(), nil
	}
	return nil, errors.Errorf("unknown strategy '%s'", name)
}
