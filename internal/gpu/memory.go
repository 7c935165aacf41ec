package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// Memory budget errors.
var (
	// ErrMemoryBudgetExceeded is returned when an allocation would exceed the budget.
	ErrMemoryBudgetExceeded = errors.New("gpu: memory budget exceeded")

	// ErrInvalidBudget is returned by SetBudget for budgets below MinMemoryMB.
	ErrInvalidBudget = errors.New("gpu: memory budget too small")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default GPU memory budget for frame buffers.
	DefaultMaxMemoryMB = 256

	// MinMemoryMB is the minimum allowed memory budget.
	MinMemoryMB = 16
)

// MemoryStats reports frame buffer memory usage.
type MemoryStats struct {
	// TotalBytes is the budget in bytes.
	TotalBytes uint64

	// UsedBytes is the memory held by live frame buffers.
	UsedBytes uint64

	// Allocations counts frame buffer sets created so far.
	Allocations uint64

	// Rejected counts allocations refused by the budget.
	Rejected uint64
}

// Utilization returns UsedBytes/TotalBytes.
func (s MemoryStats) Utilization() float64 {
	if s.TotalBytes == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.TotalBytes)
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %s/%s, %d allocations, %d rejected]",
		s.Utilization()*100,
		humanize.Bytes(s.UsedBytes),
		humanize.Bytes(s.TotalBytes),
		s.Allocations,
		s.Rejected)
}

// memoryBudget tracks the bytes held by resolution-dependent GPU buffers.
// The zero value has the default budget. It is safe for concurrent use.
type memoryBudget struct {
	mu          sync.Mutex
	budgetBytes uint64
	usedBytes   uint64
	allocations uint64
	rejected    uint64
}

func (b *memoryBudget) totalLocked() uint64 {
	if b.budgetBytes == 0 {
		return DefaultMaxMemoryMB << 20
	}
	return b.budgetBytes
}

// reserve accounts for n more bytes or fails with ErrMemoryBudgetExceeded.
func (b *memoryBudget) reserve(n uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := b.totalLocked()
	if b.usedBytes+n > total {
		b.rejected++
		return fmt.Errorf("%w: need %s, %s of %s in use",
			ErrMemoryBudgetExceeded, humanize.Bytes(n), humanize.Bytes(b.usedBytes), humanize.Bytes(total))
	}
	b.usedBytes += n
	b.allocations++
	return nil
}

// release returns n bytes to the budget.
func (b *memoryBudget) release(n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > b.usedBytes {
		n = b.usedBytes
	}
	b.usedBytes -= n
}

// setBudget changes the budget. Live allocations are kept even when they
// exceed the new budget; only later reservations are refused.
func (b *memoryBudget) setBudget(megabytes int) error {
	if megabytes < MinMemoryMB {
		return fmt.Errorf("%w: %d MB (minimum %d MB)", ErrInvalidBudget, megabytes, MinMemoryMB)
	}
	b.mu.Lock()
	b.budgetBytes = uint64(megabytes) << 20 //nolint:gosec // checked above
	b.mu.Unlock()
	return nil
}

func (b *memoryBudget) stats() MemoryStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return MemoryStats{
		TotalBytes:  b.totalLocked(),
		UsedBytes:   b.usedBytes,
		Allocations: b.allocations,
		Rejected:    b.rejected,
	}
}
