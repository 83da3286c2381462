package util

import (
	"math"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// RemoveDuplicates keeps the first occurrence of every element, preserving order.
func RemoveDuplicates[T comparable](arr []T) []T {
	set := make(map[T]struct{}, len(arr)*2)
	newarr := make([]T, 0, len(arr))

	for _, v := range arr {
		if _, ok := set[v]; !ok {
			set[v] = struct{}{}
			newarr = append(newarr, v)
		}
	}
	return newarr
}

// SortedUnique returns a sorted copy of arr without duplicates.
func SortedUnique[T constraints.Ordered](arr []T) []T {
	copyArr := make([]T, len(arr))
	copy(copyArr, arr)
	slices.Sort(copyArr)
	return slices.Compact(copyArr)
}

func generateRandomInt(min, max int) int {
	return min + rand.Intn(max-min)
}

func QuickSortG[T any](arr []T, compare func(a, b T) int) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	return QuickSort(copyArr, 0, len(arr)-1, compare)
}

func QuickSort[T any](arr []T, low, high int, compare func(a, b T) int) []T {
	if low < high {
		pivotIndex := generateRandomInt(low, high)
		pivotValue := arr[pivotIndex]

		arr[pivotIndex], arr[high] = arr[high], arr[pivotIndex]

		i := low - 1

		for j := low; j < high; j++ {
			if compare(arr[j], pivotValue) < 0 {
				i++
				arr[i], arr[j] = arr[j], arr[i]
			}
		}

		arr[i+1], arr[high] = arr[high], arr[i+1]

		QuickSort(arr, low, i, compare)
		QuickSort(arr, i+2, high, compare)
	}
	return arr
}

// BitPackIntBool stores b at bit `offset` of a. a must fit in the lower `offset` bits.
func BitPackIntBool(a int32, b bool, offset int32) int32 {
	if b {
		return a | 1<<offset
	}
	return a
}

func BitUnpackIntBool(packed int32, offset int32) (int32, bool) {
	mask := int32(uint32(1)<<offset - 1)
	return packed & mask, packed&(1<<offset) != 0
}

// IDMap assigns dense ids to strings (street names, tag values) in first-seen order.
type IDMap struct {
	strToID map[string]int32
	idToStr []string
}

func NewIdMap() IDMap {
	return IDMap{
		strToID: make(map[string]int32),
		idToStr: make([]string, 0),
	}
}

func (m *IDMap) GetID(s string) int32 {
	if id, ok := m.strToID[s]; ok {
		return id
	}
	id := int32(len(m.idToStr))
	m.strToID[s] = id
	m.idToStr = append(m.idToStr, s)
	return id
}

func (m *IDMap) GetStr(id int32) string {
	if id < 0 || int(id) >= len(m.idToStr) {
		return ""
	}
	return m.idToStr[id]
}

func (m *IDMap) Len() int {
	return len(m.idToStr)
}
