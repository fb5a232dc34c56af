package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypercall-generator/internal/proto"
)

func mustParse(t *testing.T, line string, lineNum int) *proto.Prototype {
	t.Helper()

	p, err := proto.ParsePrototype(line, lineNum)
	require.NoError(t, err)

	return p
}

func TestAllocate_DenseAscendingFromBase(t *testing.T) {
	protos := []*proto.Prototype{
		mustParse(t, "int f1(int a)", 1),
		mustParse(t, "int f2(int a)", 2),
		mustParse(t, "int f3(int a)", 3),
	}

	table, err := Allocate(protos, 0x610)
	require.NoError(t, err)

	assert.Equal(t, 0x60F, table.Reserved())
	assert.Equal(t, 0x610, table.Base())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"f1", "f2", "f3"}, table.Names())

	seen := make(map[int]string)
	for i, name := range table.Names() {
		code, ok := table.Code(name)
		require.True(t, ok)
		assert.Equal(t, 0x610+i, code)

		// No two functions may share a code.
		_, dup := seen[code]
		assert.False(t, dup)
		seen[code] = name
	}
}

func TestAllocate_Empty(t *testing.T) {
	table, err := Allocate(nil, 0x610)
	require.NoError(t, err)

	assert.Zero(t, table.Len())
	assert.Equal(t, 0x60F, table.Reserved())
}

func TestAllocate_UnknownName(t *testing.T) {
	table, err := Allocate(nil, 0x610)
	require.NoError(t, err)

	_, ok := table.Code("missing")
	assert.False(t, ok)
}

func TestAllocate_DuplicateFunctionName(t *testing.T) {
	protos := []*proto.Prototype{
		mustParse(t, "int ibv_fork_init()", 1),
		mustParse(t, "int ibv_poll_cq(struct ibv_cq * cq, int num_entries, struct ibv_wc * wc)", 2),
		mustParse(t, "void ibv_fork_init()", 4),
	}

	_, err := Allocate(protos, 0x610)
	require.Error(t, err)

	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "ibv_fork_init", allocErr.Function)
	assert.Equal(t, 1, allocErr.FirstLine)
	assert.Equal(t, 4, allocErr.DuplicateLine)
	assert.Contains(t, err.Error(), "collide")
}
