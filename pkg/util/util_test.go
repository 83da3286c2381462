package util

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuickSort(t *testing.T) {

	arr := []int{4, 3, 2, 1, 10, 5555, -1, 20, 100, -100}
	arr = QuickSortG(arr, func(a, b int) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		} else {
			return 0
		}
	})

	for i := 0; i < len(arr); i++ {
		if i == 0 {
			continue
		}
		if arr[i] < arr[i-1] {
			t.Errorf("Error in sorting")
		}
	}
}

func TestBitPacking(t *testing.T) {
	var buf [4]byte
	streetID := int32(536870913) // uses bit 29
	packed := BitPackIntBool(streetID, true, 30)

	binary.LittleEndian.PutUint32(buf[:], uint32(packed))

	unpacked, oneWay := BitUnpackIntBool(int32(binary.LittleEndian.Uint32(buf[:])), 30)
	assert.Equal(t, streetID, unpacked)
	assert.True(t, oneWay)

	unpacked, oneWay = BitUnpackIntBool(BitPackIntBool(7, false, 30), 30)
	assert.Equal(t, int32(7), unpacked)
	assert.False(t, oneWay)
}

func TestSortedUniqueAndRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []int32{1, 2, 5}, SortedUnique([]int32{5, 2, 1, 2, 5}))
	assert.Equal(t, []int32{5, 2, 1}, RemoveDuplicates([]int32{5, 2, 1, 2, 5}))
	assert.Equal(t, []int{1, 2, 3}, ReverseG([]int{3, 2, 1}))
}

func TestIDMap(t *testing.T) {
	m := NewIdMap()
	assert.Equal(t, int32(0), m.GetID("Jalan Slamet Riyadi"))
	assert.Equal(t, int32(1), m.GetID("Jalan Adi Sucipto"))
	assert.Equal(t, int32(0), m.GetID("Jalan Slamet Riyadi"))
	assert.Equal(t, "Jalan Adi Sucipto", m.GetStr(1))
	assert.Equal(t, "", m.GetStr(9))
	assert.Equal(t, 2, m.Len())
}
