package tui

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ideas/internal/ideas/application"
	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

const (
	prevLabel = "‹ Prev"
	nextLabel = "Next ›"

	itemControlsLabel = "[enter] edit  [d] delete"
)

// NoCursor renders a listing without a selection marker.
const NoCursor = -1

// Render draws a listing view: header with the shown range, one block per
// item, and the pagination controls. Disabled controls are dimmed.
func Render(v application.View, st Styles, cursor int) string {
	var b strings.Builder

	b.WriteString(st.Header.Render("Ideas"))
	b.WriteString("  ")
	b.WriteString(st.Meta.Render(fmt.Sprintf("Showing %d - %d of %d", v.RangeStart, v.RangeEnd, v.TotalCount)))
	b.WriteString("\n")

	b.WriteString(st.Meta.Render(fmt.Sprintf("Sort by: %s  |  Show per page: %d", sortLabel(v.Pagination.SortOrder), v.Pagination.PageSize)))
	if v.EditMode {
		b.WriteString("  ")
		b.WriteString(st.Badge.Render("EDIT MODE"))
	}
	if v.Loading {
		b.WriteString("  ")
		b.WriteString(st.Meta.Render("loading…"))
	}
	b.WriteString("\n\n")

	switch {
	case v.Err != nil:
		b.WriteString(st.Error.Render("Failed to load ideas: " + v.Err.Error()))
		b.WriteString("\n")
	case len(v.Items) == 0:
		b.WriteString(st.Meta.Render("No ideas to show."))
		b.WriteString("\n")
	default:
		for i, it := range v.Items {
			renderItem(&b, it, st, i == cursor)
		}
	}

	b.WriteString("\n")
	b.WriteString(control(prevLabel, v.PrevDisabled, st))
	b.WriteString("   ")
	b.WriteString(st.Meta.Render(fmt.Sprintf("Page %d / %d", v.Pagination.CurrentPage, v.Pagination.LastPage(v.TotalCount))))
	b.WriteString("   ")
	b.WriteString(control(nextLabel, v.NextDisabled, st))
	b.WriteString("\n")
	return b.String()
}

func renderItem(b *strings.Builder, it application.ItemView, st Styles, selected bool) {
	marker := "  "
	if selected {
		marker = st.Cursor.Render("> ")
	}
	b.WriteString(marker)
	if it.Editable {
		b.WriteString(st.Disabled.Render(itemControlsLabel))
		b.WriteString("  ")
	}
	b.WriteString(st.Date.Render(it.DateLabel))
	if it.Editable {
		b.WriteString(st.Meta.Render(fmt.Sprintf("  #%d", it.ID)))
	}
	b.WriteString("\n  ")
	b.WriteString(st.ItemTitle.Render(it.Title))
	b.WriteString("\n  ")
	b.WriteString(st.Image.Render(imageLabel(it.Image)))
	b.WriteString("\n\n")
}

func control(label string, disabled bool, st Styles) string {
	if disabled {
		return st.Disabled.Render(label)
	}
	return st.Control.Render(label)
}

func sortLabel(o domain.SortOrder) string {
	if o == domain.SortOldest {
		return "Oldest"
	}
	return "Newest"
}

// imageLabel shortens inline data URIs to their media type and size.
func imageLabel(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	mediaType, payload, _ := strings.Cut(strings.TrimPrefix(image, "data:"), ",")
	mediaType = strings.TrimSuffix(mediaType, ";base64")
	return fmt.Sprintf("[inline %s, %d bytes encoded]", mediaType, len(payload))
}
