// Package cachestore provides byte stores for restapi's response cache.
//
// Every store satisfies restapi.Store:
//
//	files, err := cachestore.NewFileStore(filepath.Join(os.TempDir(), "myapp"))
//	cache := restapi.BytesCache(files)
//	restapi.Load(ctx, api, "/avatars/42.png", restapi.AcceptCache, cache, onAvatar)
//
// Keys are request URLs. FileStore names each file after the last path
// segment of its key, so two URLs ending in the same segment share an
// entry. RedisStore and MemoryStore key by the full URL.
//
// Entries are never evicted by the stores themselves unless RedisStore
// is given a TTL.
package cachestore
