// Package seeders holds the database seed functions. Each file registers
// itself from init(); the CLI runs them with "nexus seed".
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc seeds one slice of data. Seeders must be idempotent so the
// command can run against an already-seeded database.
type SeederFunc func(db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a named seeder to the registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, stopping
// at the first failure.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	todo := make([]entry, len(entries))
	copy(todo, entries)
	mu.Unlock()

	if len(todo) == 0 {
		fmt.Println("no seeders registered")
		return nil
	}

	for _, e := range todo {
		fmt.Printf("seeding %s... ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Println("failed")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("ok")
	}
	return nil
}
