// Package ratelimiter applies a fixed-window request budget per client key.
//
// The public scan endpoints are its only consumer in this repository: a
// presented token is a guess until the store says otherwise, and the limiter
// makes guessing expensive. The memory store serves single-instance
// deployments; the Redis store shares one budget across replicas.
package ratelimiter
