// Package entities manages the repeating business-entity collections of
// the client wizard. The slice operations are generic over the entity type;
// each preserves sibling elements untouched and only ever mutates the
// addressed element.
package entities

// Add appends an item and returns the grown slice.
func Add[T any](list []T, item T) []T {
	return append(list, item)
}

// Remove drops the element at i. Used only for entities that were never
// persisted; saved entities go through the remote delete flow instead.
func Remove[T any](list []T, i int) ([]T, bool) {
	if i < 0 || i >= len(list) {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}

// Update applies fn to the element at i in place.
func Update[T any](list []T, i int, fn func(*T)) bool {
	if i < 0 || i >= len(list) {
		return false
	}
	fn(&list[i])
	return true
}

// At returns a copy of the element at i.
func At[T any](list []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(list) {
		return zero, false
	}
	return list[i], true
}

// AddListItem appends a blank slot to a nested string list (trading names,
// ASIC industry codes).
func AddListItem(list []string) []string {
	return append(list, "")
}

// UpdateListItem replaces one slot of a nested string list.
func UpdateListItem(list []string, i int, value string) bool {
	if i < 0 || i >= len(list) {
		return false
	}
	list[i] = value
	return true
}

// RemoveListItem drops one slot of a nested string list. The list never
// shrinks below one slot: a remove that would empty it is refused, so the
// invariant holds regardless of what the UI allows.
func RemoveListItem(list []string, i int) ([]string, bool) {
	if len(list) <= 1 || i < 0 || i >= len(list) {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}
