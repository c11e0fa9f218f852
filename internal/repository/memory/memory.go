// Package memory implements the repository interfaces on top of in-process
// go-cache stores. There is no persistence: process restart loses all state,
// which is the intended deployment model for this service.
//
// Every read and write deep-copies the entity, role profiles included, so
// callers never share mutable state with a store. Mutation goes through the
// owning service and back in via an explicit Update/Upsert.
package memory

import (
	"github.com/patrickmn/go-cache"
)

func newStore() *cache.Cache {
	return cache.New(cache.NoExpiration, 0)
}
