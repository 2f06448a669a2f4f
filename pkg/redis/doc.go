// Package redis connects to the Redis instance backing the shared
// tenant cache in multi-instance deployments.
package redis
