// internal/common/database/neo4j.go
package database

import (
	"context"
	"fmt"
	"time"

	"financial-graphrag/internal/common/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
)

// Neo4jClient owns the driver for the knowledge graph.
type Neo4jClient struct {
	Driver   neo4j.DriverWithContext
	Database string
}

func NewNeo4j(cfg config.Neo4jConfig) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
		func(c *neo4jconfig.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			c.ConnectionAcquisitionTimeout = 30 * time.Second
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jClient{Driver: driver, Database: cfg.Database}, nil
}

func (c *Neo4jClient) Ping(ctx context.Context) error {
	if err := c.Driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity check failed: %w", err)
	}
	return nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.Driver != nil {
		return c.Driver.Close(ctx)
	}
	return nil
}
