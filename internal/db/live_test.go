package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLiveDatabase opens the real story database and reports what it holds.
// Skipped if the database doesn't exist.
func TestLiveDatabase(t *testing.T) {
	dbPath := DefaultDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Skip("database not found at", dbPath)
	}

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.Get(context.Background(), "spaceStories")
	require.NoError(t, err)
	if !ok {
		fmt.Println("No stories saved yet")
		return
	}
	fmt.Printf("Story payload: %d bytes\n", len(value))
}
