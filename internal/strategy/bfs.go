package strategy

import (
	"nextce/internal/prop"

	"github.com/pkg/errors"
)

// BFS 广度优先: 各性质轮流前进一轮
type BFS struct {
	props []*prop.Property
}

func NewBFS() *BFS {
	return &BFS{
		props: make([]*prop.Property, 0),
	}
}

func (bfs *BFS) Size() int {
	return len(bfs.props)
}

func (bfs *BFS) HasNext() bool {
	return len(bfs.props) > 0
}

func (bfs *BFS) Pop() (*prop.Property, error) {
	if len(bfs.props) <= 0 {
		return nil, errors.New("property queue is empty")
	}
	p := bfs.props[0]
	bfs.props = bfs.props[1:]
	return p, nil
}

func (bfs *BFS) Push(props ...*prop.Property) error {
	bfs.props = append(bfs.props, props...)
	return nil
}
