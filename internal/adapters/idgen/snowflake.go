package idgen

import (
	"fmt"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/bwmarrin/snowflake"
)

// Snowflake issues ids of the form PREFIX-<snowflake>. Ids from one node
// are unique and increase with time.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator for the given node number (0-1023).
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

var _ repositories.IDGenerator = (*Snowflake)(nil)

func (s *Snowflake) NewID(prefix string) string {
	id := s.node.Generate().String()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
