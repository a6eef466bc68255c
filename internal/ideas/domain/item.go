package domain

import "time"

// DefaultImage is the placeholder used when an item has no image of its own.
const DefaultImage = "assets/default-image.jpg"

// Item is one listed idea.
type Item struct {
	ID    int
	Title string
	// Image is a URL or an inline data URI.
	Image string
	Date  time.Time
}

// ItemFields carries user input for adding or editing an item.
// ImageFile is a local path; empty means "no file selected".
type ItemFields struct {
	Title     string
	Date      time.Time
	ImageFile string
}

// NextID returns the identifier for a new item: one more than the largest
// identifier in items, or 1 when items is empty.
func NextID(items []Item) int {
	maxID := 0
	for _, it := range items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID + 1
}

// IndexOf returns the position of the item with id, or -1.
func IndexOf(items []Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
