package queue

import "context"

// memoryBuffer bounds how many jobs can sit undelivered before Push blocks.
const memoryBuffer = 1000

// MemoryDriver is the in-process, channel-backed driver. It is the default
// for development and tests; jobs do not survive a restart.
type MemoryDriver struct {
	jobs chan []byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, memoryBuffer)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	d.jobs <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
