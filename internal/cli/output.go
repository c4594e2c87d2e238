package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/justyntemme/libcat/pkg/models"
)

// emit prints v as indented JSON when --json is set, otherwise runs render
func (e *env) emit(v any, render func()) error {
	if !e.asJSON {
		render()
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, string(data))
	return nil
}

func (e *env) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(e.out, t.String())
}

func (e *env) printBooks(books []models.Book) {
	if len(books) == 0 {
		fmt.Fprintln(e.out, "No books found")
		return
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			b.CategoryName,
			year(b.ReleasedYear),
		})
	}
	e.table([]string{"ID", "Title", "Author", "Genre", "Year"}, rows)
}

func (e *env) printEnriched(books []models.EnrichedBook) {
	if len(books) == 0 {
		fmt.Fprintln(e.out, "No books found")
		return
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		var about string
		if b.AuthorInfo != nil {
			about = firstLine(b.AuthorInfo.Biography, 40)
		}
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			b.CategoryName,
			year(b.ReleasedYear),
			about,
		})
	}
	e.table([]string{"ID", "Title", "Author", "Genre", "Year", "About the author"}, rows)
}

func (e *env) printPage(meta models.PageMeta) {
	meta = meta.Normalize()
	if meta.TotalPages > 0 {
		fmt.Fprintf(e.out, "Page %d/%d, %d total\n", meta.Page, meta.TotalPages, meta.Total)
	}
}

func year(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

func field(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}
