package client

import (
	"context"
	"sort"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// edgeKinds is the traversal order for relationship metadata. Incoming
// edges first, then outgoing, with edge names visited alphabetically so the
// snapshot shape is deterministic.
var edgeKinds = []string{"connecting", "connections"}

// ArchiveEntity snapshots the entity together with every entity reachable
// via its relationship edges into the archive collection for its type, then
// deletes the original.
//
// The delete only happens after the snapshot write succeeds, so a failure
// at any step leaves the original entity untouched.
func (c *Client) ArchiveEntity(ctx context.Context, entityType, entityID string) (usergrid.Entity, error) {
	entity, err := c.GetEntityByID(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	snapshot := make(usergrid.Entity, len(entity))
	for key, value := range entity {
		snapshot[key] = value
	}

	for _, kind := range edgeKinds {
		edges := entityEdges(entity, kind)

		names := make([]string, 0, len(edges))
		for name := range edges {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			related, err := c.CollectEntities(ctx, edges[name], nil).All()
			if err != nil {
				return nil, err
			}

			snapshot["__"+kind+"_"+name] = related
		}
	}

	archived, err := c.PostEntity(ctx, constants.ArchivePrefix+entityType, snapshot)
	if err != nil {
		return nil, err
	}

	_, err = c.DeleteEntityByID(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	return archived, nil
}

func entityEdges(entity usergrid.Entity, kind string) map[string]string {
	if kind == "connecting" {
		return entity.Connecting()
	}

	return entity.Connections()
}
