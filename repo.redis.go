package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis key space. Entities are stored as json values inside hashes
// keyed by their id. The index hashes back the uniqueness rules at the
// persistence boundary: one book per isbn, one active loan per book.
const (
	HBooks       string = "books"
	HBooksByISBN string = "books:isbn"
	KBooksNextID string = "books:next:id"
	HLoans       string = "loans"
	HActiveLoans string = "loans:active"
	KLoansNextID string = "loans:next:id"
)

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// formatID renders an entity id as a hash field name.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
