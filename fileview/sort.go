package fileview

import (
	"cmp"
	"slices"
	"strings"
)

// compareFiles orders by the sort key, then case-insensitive name, then path.
// Zero means both refer to the same path.
func compareFiles(a, b *FileData, method SortMethod, ascending bool) int {
	var c int
	switch method {
	case SortSize:
		c = cmp.Compare(a.size, b.size)
	case SortTime:
		c = a.modTime.Compare(b.modTime)
	}
	if c == 0 {
		c = strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	}
	if c == 0 {
		c = strings.Compare(a.path, b.path)
	}
	if !ascending {
		c = -c
	}
	return c
}

func sortFiles(files []*FileData, method SortMethod, ascending bool) {
	slices.SortStableFunc(files, func(a, b *FileData) int {
		return compareFiles(a, b, method, ascending)
	})
}

func sortEntries(entries []*Entry, method SortMethod, ascending bool) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return compareFiles(a.fd, b.fd, method, ascending)
	})
}

// insertSorted places e at its ordered position in a sorted slice.
func insertSorted(entries []*Entry, e *Entry, method SortMethod, ascending bool) []*Entry {
	i, _ := slices.BinarySearchFunc(entries, e, func(a, b *Entry) int {
		return compareFiles(a.fd, b.fd, method, ascending)
	})
	return slices.Insert(entries, i, e)
}
