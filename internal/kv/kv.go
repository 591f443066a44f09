// Package kv defines the string key/value space the story store and the edit
// handoff are persisted in, plus an in-memory implementation.
//
// Two spaces are used at runtime:
//   - the durable space (SQLite, see package db) holds the story collection;
//   - the session space (memory or Redis) holds short-lived handoff payloads.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotConfigured is returned by methods called on a nil or closed backend.
var ErrNotConfigured = errors.New("kv storage is not configured")

// Storage is a string key/value space. Get reports a missing key with ok=false
// rather than an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Taker is implemented by backends that can read and delete a key atomically.
type Taker interface {
	Take(ctx context.Context, key string) (value string, ok bool, err error)
}

// Take reads and deletes key, atomically when the backend is a Taker.
func Take(ctx context.Context, s Storage, key string) (string, bool, error) {
	if t, ok := s.(Taker); ok {
		return t.Take(ctx, key)
	}
	value, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	if err := s.Remove(ctx, key); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Memory is a process-scoped Storage. Its contents vanish with the process,
// which is what the session space needs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if m == nil {
		return "", false, ErrNotConfigured
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m == nil {
		return ErrNotConfigured
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m == nil {
		return ErrNotConfigured
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Take reads and deletes key under one lock.
func (m *Memory) Take(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if m == nil {
		return "", false, ErrNotConfigured
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if ok {
		delete(m.values, key)
	}
	return v, ok, nil
}
