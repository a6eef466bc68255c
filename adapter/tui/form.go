package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

const dateLayout = "2006-01-02"

const (
	fieldTitle = iota
	fieldDate
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Date", "Image"}

var (
	errTitleRequired = errors.New("title is required")
	errDateInvalid   = errors.New("date must be YYYY-MM-DD")
)

// form is the add/edit item form. editID is zero when adding.
type form struct {
	inputs       []textinput.Model
	focus        int
	editID       int
	// currentImage is the edited item's image, kept when no file is chosen.
	currentImage string
	err          error
}

// newForm builds an empty add form, or an edit form prefilled from item.
func newForm(item *domain.Item, now time.Time) form {
	f := form{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Width = 60
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].CharLimit = 200
	f.inputs[fieldTitle].Placeholder = "Idea title"
	f.inputs[fieldDate].CharLimit = len(dateLayout)
	f.inputs[fieldDate].Placeholder = dateLayout
	f.inputs[fieldImage].Placeholder = "path/to/image.jpg (optional)"

	if item != nil {
		f.editID = item.ID
		f.currentImage = item.Image
		f.inputs[fieldTitle].SetValue(item.Title)
		f.inputs[fieldDate].SetValue(item.Date.Format(dateLayout))
	} else {
		f.inputs[fieldDate].SetValue(now.Format(dateLayout))
	}
	return f
}

func (f form) editing() bool { return f.editID != 0 }

func (f *form) focusField(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// fields validates the input.
func (f form) fields() (domain.ItemFields, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return domain.ItemFields{}, errTitleRequired
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(f.inputs[fieldDate].Value()))
	if err != nil {
		return domain.ItemFields{}, errDateInvalid
	}
	return domain.ItemFields{
		Title:     title,
		Date:      date,
		ImageFile: strings.TrimSpace(f.inputs[fieldImage].Value()),
	}, nil
}

func (f form) view(st Styles) string {
	var b strings.Builder
	heading := "Add idea"
	if f.editing() {
		heading = "Edit idea"
	}
	b.WriteString(st.Header.Render(heading))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		b.WriteString(st.Label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
		if i == fieldImage {
			f.writeImagePreview(&b, st)
		}
	}
	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(st.Error.Render(f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Help.Render("tab next field • enter save • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// writeImagePreview shows the file about to be used, or the image an edit
// keeps when the field is left empty.
func (f form) writeImagePreview(b *strings.Builder, st Styles) {
	var preview string
	switch picked := strings.TrimSpace(f.inputs[fieldImage].Value()); {
	case picked != "":
		preview = "new: " + picked
	case f.editing():
		preview = "current: " + imageLabel(f.currentImage)
	default:
		return
	}
	b.WriteString(st.Label.Render(""))
	b.WriteString(st.Image.Render(preview))
	b.WriteString("\n")
}
