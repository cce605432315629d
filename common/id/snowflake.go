package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The server uses node 1; each terminal wizard process picks its own.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID.
func New() int64 {
	return node.Generate().Int64()
}

// NewString returns a new ID in base 10, the form carried in the
// X-Wizard-Session header.
func NewString() string {
	return strconv.FormatInt(New(), 10)
}
