package service

import "github.com/Elias-Front-end/management-system/internal/repository"

// paginate slices items that were filtered in memory.
func paginate[T any](items []T, page repository.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	if page.Offset > 0 {
		items = items[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
