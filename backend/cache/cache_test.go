package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCollectsAndFlushes(t *testing.T) {
	m := NewMemory()
	m.Invalidate(ViewTools, ViewAdminTools)
	m.Invalidate(ViewTools) // duplicates collapse

	keys := m.Flush()
	assert.ElementsMatch(t, []string{ViewTools, ViewAdminTools}, keys)
	assert.Empty(t, m.Flush())
}

func TestMemoryConcurrentInvalidate(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Invalidate(ViewStudent(uint(n)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Flush(), 20)
}

func TestViewKeys(t *testing.T) {
	assert.Equal(t, "students/7", ViewStudent(7))
	assert.Equal(t, "teams/3", ViewTeam(3))
}
