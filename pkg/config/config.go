// Package config loads the broker's optional cluster topology file.
// The core replica itself takes no config file — spec §6 is explicit
// that its three startup arguments are positional CLI args — but the
// broker (an external collaborator the core never imports) benefits
// from knowing node ids up front rather than only on first hello.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cluster describes the node ids a broker/launcher expects to see,
// grounded on raft-server/config.go's NodeConfig/ClusterConfig shape
// in the retrieved pack.
type Cluster struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

type NodeConfig struct {
	ID string `yaml:"id"`
}

// Load reads and validates a cluster topology file.
func Load(path string) (*Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Cluster
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return &c, nil
}

func (c *Cluster) Validate() error {
	if len(c.Nodes) == 0 {
		return fmt.Errorf("nodes must contain at least one entry")
	}
	seen := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node id must not be empty")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id: %s", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// IDs returns the configured node ids in file order.
func (c *Cluster) IDs() []string {
	ids := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		ids[i] = n.ID
	}
	return ids
}
