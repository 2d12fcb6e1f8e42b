package uid

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit time-ordered ids.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator for node, which must fit in 10 bits.
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("uid: snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

// NodeFromEnv reads the node number from SNOWFLAKE_NODE, defaulting to 1.
func NodeFromEnv() int64 {
	n, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		return 1
	}
	return n
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
