package utilities

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeMu sync.RWMutex
	node   *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// SetSnowflakeNode configures the process-wide snowflake node (0-1023).
func SetSnowflakeNode(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

// NewSnowflakeID generates a snowflake ID string from the configured node.
// When no node was configured it falls back to a KSUID string so callers
// always get a unique ID.
func NewSnowflakeID() string {
	nodeMu.RLock()
	n := node
	nodeMu.RUnlock()
	if n == nil {
		return NewKSUID()
	}
	return n.Generate().String()
}
