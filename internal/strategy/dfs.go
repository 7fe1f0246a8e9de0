// Package strategy 实现性质调度的策略
package strategy

import (
	"nextce/internal/prop"

	"github.com/pkg/errors"
)

// DFS 深度优先: 一个性质的反例全部枚举完之后才处理下一个
type DFS struct {
	props []*prop.Property
}

func NewDFS() *DFS {
	return &DFS{
		props: make([]*prop.Property, 0),
	}
}

func (dfs *DFS) Size() int {
	return len(dfs.props)
}

func (dfs *DFS) HasNext() bool {
	return len(dfs.props) > 0
}

func (dfs *DFS) Pop() (*prop.Property, error) {
	if len(dfs.props) <= 0 {
		return nil, errors.New("property stack is empty")
	}
	p := dfs.props[len(dfs.props)-1]
	dfs.props = dfs.props[:len(dfs.props)-1]
	return p, nil
}

// Push stacks props so that the first one is popped first.
func (dfs *DFS) Push(props ...*prop.Property) error {
	for i := len(props) - 1; i >= 0; i-- {
		dfs.props = append(dfs.props, props[i])
	}
	return nil
}
