package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/pkg/models"
)

type bookList struct {
	Filter string          `json:"filter"`
	Books  []models.Book   `json:"books"`
	Meta   models.PageMeta `json:"meta"`
}

type enrichedList struct {
	Books []models.EnrichedBook `json:"books"`
	Meta  models.PageMeta       `json:"meta"`
}

func (e *env) booksCmd() *cobra.Command {
	var (
		search, genre, author string
		enriched              bool
		page, pageSize        int
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books",
		Long: `List one page of books, optionally filtered.

Only one filter applies at a time. --enriched lists books with their
author information attached and takes no filter.

Examples:
  libcat books
  libcat books --search "dune"
  libcat books --genre Roman --page 2
  libcat books --author "Franz Kafka"
  libcat books --enriched`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter catalog.Filter
			switch {
			case search != "":
				filter = filter.WithSearch(search)
			case genre != "":
				filter = filter.WithGenre(genre)
			case author != "":
				filter = filter.WithAuthor(author)
			}
			if pageSize <= 0 {
				pageSize = e.cfg.UI.BooksPageSize
			}

			client, err := e.client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var raw *api.RawPage
			switch {
			case enriched:
				e.Printf("Fetching enriched books\n")
				raw, err = client.EnrichedBooks(ctx, page, pageSize)
			case filter.Search != "":
				e.Printf("Searching books for %q\n", filter.Search)
				raw, err = client.SearchBooks(ctx, filter.Search, page, pageSize)
			case filter.Genre != "":
				e.Printf("Fetching books in %s\n", filter.Genre)
				raw, err = client.BooksByCategory(ctx, filter.Genre, page, pageSize)
			case filter.Author != "":
				e.Printf("Fetching books by %s\n", filter.Author)
				raw, err = client.BooksByAuthor(ctx, filter.Author, page, pageSize)
			default:
				e.Printf("Fetching books\n")
				raw, err = client.ListBooks(ctx, api.ListQuery{Page: page, PageSize: pageSize})
			}
			if err != nil {
				return err
			}

			if enriched {
				books, err := api.DecodeList[models.EnrichedBook](raw, api.FieldBooks)
				if err != nil {
					return err
				}
				return e.emit(enrichedList{Books: books, Meta: raw.Meta}, func() {
					e.printEnriched(books)
					e.printPage(raw.Meta)
				})
			}

			books, err := api.DecodeList[models.Book](raw, api.FieldBooks)
			if err != nil {
				return err
			}
			result := bookList{Filter: filter.String(), Books: books, Meta: raw.Meta}
			return e.emit(result, func() {
				e.printBooks(books)
				e.printPage(raw.Meta)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "free-text search")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "only books of this genre")
	cmd.Flags().StringVarP(&author, "author", "a", "", "only books by this author")
	cmd.Flags().BoolVar(&enriched, "enriched", false, "include author information")
	cmd.Flags().IntVarP(&page, "page", "p", fetch.DefaultInitialPage, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "books per page (default from config)")
	cmd.MarkFlagsMutuallyExclusive("search", "genre", "author", "enriched")

	return cmd
}

func (e *env) bookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book <id>",
		Short: "Show a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid book id %q", args[0])
			}

			client, err := e.client()
			if err != nil {
				return err
			}
			book, err := client.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}

			return e.emit(book, func() {
				fmt.Fprintln(e.out, book.Title)
				fmt.Fprintln(e.out, field("Author", book.Author))
				fmt.Fprintln(e.out, field("Genre", book.CategoryName))
				if book.Publisher != "" {
					fmt.Fprintln(e.out, field("Publisher", book.Publisher))
				}
				fmt.Fprintln(e.out, field("Year", year(book.ReleasedYear)))
				if book.PageCount > 0 {
					fmt.Fprintln(e.out, field("Pages", strconv.Itoa(book.PageCount)))
				}
				if book.ProductCode != "" {
					fmt.Fprintln(e.out, field("Code", book.ProductCode))
				}
				if book.AuthorInfo != nil && book.AuthorInfo.Biography != "" {
					fmt.Fprintf(e.out, "\n%s\n", book.AuthorInfo.Biography)
				}
			})
		},
	}
}

func (e *env) authorsCmd() *cobra.Command {
	var (
		search, name   string
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "authors",
		Short: "List authors",
		Long: `List one page of authors.

--search filters the paginated list. --name asks the server's name search,
which returns every match at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := e.client()
			if err != nil {
				return err
			}

			if name != "" {
				authors, err := client.SearchAuthors(cmd.Context(), name)
				if err != nil {
					return err
				}
				return e.emit(authors, func() { e.printAuthors(authors) })
			}

			if pageSize <= 0 {
				pageSize = e.cfg.UI.ListPageSize
			}
			raw, err := client.ListAuthors(cmd.Context(), api.ListQuery{Page: page, PageSize: pageSize, Search: search})
			if err != nil {
				return err
			}
			authors, err := api.DecodeList[models.Author](raw, api.FieldAuthors)
			if err != nil {
				return err
			}

			return e.emit(authors, func() {
				e.printAuthors(authors)
				e.printPage(raw.Meta)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter authors by name")
	cmd.Flags().StringVarP(&name, "name", "n", "", "search authors by name, unpaginated")
	cmd.Flags().IntVarP(&page, "page", "p", fetch.DefaultInitialPage, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "authors per page (default from config)")
	cmd.MarkFlagsMutuallyExclusive("search", "name")
	return cmd
}

func (e *env) printAuthors(authors []models.Author) {
	if len(authors) == 0 {
		fmt.Fprintln(e.out, "No authors found")
		return
	}
	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, []string{strconv.Itoa(a.ID), a.Name, firstLine(a.Biography, 60)})
	}
	e.table([]string{"ID", "Name", "Biography"}, rows)
}

func (e *env) authorCmd() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "author <name>",
		Short: "Show an author and their books",
		Long: `Show an author and their books, by name or by --id.

Examples:
  libcat author "Franz Kafka"
  libcat author --id 9`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := nameOrID(args, id, "author")
			if err != nil {
				return err
			}

			client, err := e.client()
			if err != nil {
				return err
			}
			var detail *models.AuthorDetail
			if name != "" {
				detail, err = client.AuthorDetail(cmd.Context(), name)
			} else {
				detail, err = client.GetAuthor(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			return e.emit(detail, func() {
				fmt.Fprintln(e.out, detail.Author.Name)
				if detail.Author.Biography != "" {
					fmt.Fprintf(e.out, "%s\n", detail.Author.Biography)
				}
				fmt.Fprintf(e.out, "\n%d books\n", max(detail.BookCount, len(detail.Books)))
				e.printBooks(detail.Books)
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "look the author up by ID")
	return cmd
}

// nameOrID returns the trimmed name argument; exactly one of it and id must be given
func nameOrID(args []string, id int, noun string) (string, error) {
	var name string
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}
	switch {
	case name != "" && id != 0:
		return "", fmt.Errorf("give either a %s name or --id, not both", noun)
	case name == "" && id <= 0:
		return "", fmt.Errorf("%s name or a positive --id is required", noun)
	}
	return name, nil
}

func (e *env) genresCmd() *cobra.Command {
	var (
		search, name   string
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List genres",
		Long: `List one page of genres.

--search filters the paginated list. --name asks the server's name search,
which returns every match at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := e.client()
			if err != nil {
				return err
			}

			if name != "" {
				genres, err := client.SearchGenres(cmd.Context(), name)
				if err != nil {
					return err
				}
				return e.emit(genres, func() { e.printGenres(genres) })
			}

			if pageSize <= 0 {
				pageSize = e.cfg.UI.ListPageSize
			}
			raw, err := client.ListGenres(cmd.Context(), api.ListQuery{Page: page, PageSize: pageSize, Search: search})
			if err != nil {
				return err
			}
			genres, err := fetch.GenreFields()(raw)
			if err != nil {
				return err
			}

			return e.emit(genres, func() {
				e.printGenres(genres)
				e.printPage(raw.Meta)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter genres by name")
	cmd.Flags().StringVarP(&name, "name", "n", "", "search genres by name, unpaginated")
	cmd.Flags().IntVarP(&page, "page", "p", fetch.DefaultInitialPage, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "genres per page (default from config)")
	cmd.MarkFlagsMutuallyExclusive("search", "name")
	return cmd
}

func (e *env) printGenres(genres []models.Genre) {
	if len(genres) == 0 {
		fmt.Fprintln(e.out, "No genres found")
		return
	}
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{strconv.Itoa(g.ID), g.Name, firstLine(g.Description, 60)})
	}
	e.table([]string{"ID", "Name", "Description"}, rows)
}

func (e *env) genreCmd() *cobra.Command {
	var id, page, pageSize int

	cmd := &cobra.Command{
		Use:   "genre <name>",
		Short: "Show a genre and one page of its books",
		Long: `Show a genre and one page of its books, by name or by --id.

Paging applies to lookups by name.

Examples:
  libcat genre Roman --page 2
  libcat genre --id 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := nameOrID(args, id, "genre")
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = e.cfg.UI.GenrePageSize
			}

			client, err := e.client()
			if err != nil {
				return err
			}
			var detail *models.GenreDetail
			if name != "" {
				detail, err = client.GenreDetail(cmd.Context(), name, page, pageSize)
			} else {
				detail, err = client.GetGenre(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			return e.emit(detail, func() {
				fmt.Fprintln(e.out, detail.Genre.Name)
				if detail.Genre.Description != "" {
					fmt.Fprintln(e.out, detail.Genre.Description)
				}
				fmt.Fprintln(e.out)
				e.printBooks(detail.Books)

				if name == "" {
					fmt.Fprintf(e.out, "%d books\n", max(detail.BookCount, len(detail.Books)))
					return
				}
				total := detail.Total
				if total == 0 {
					total = detail.BookCount
				}
				e.printPage(models.PageMeta{Total: total, Page: page, PageSize: pageSize})
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "look the genre up by ID")
	cmd.Flags().IntVarP(&page, "page", "p", fetch.DefaultInitialPage, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "books per page (default from config)")
	return cmd
}

func (e *env) recommendCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend [general|genre|author] [value]",
		Short: "Get book recommendations",
		Long: `Get book recommendations.

Without a value, genre and author recommendations use one picked by the server.

Examples:
  libcat recommend
  libcat recommend genre Roman
  libcat recommend author "Franz Kafka" --limit 3
  libcat recommend genre`,
		Args:      cobra.RangeArgs(0, 2),
		ValidArgs: []string{"general", "genre", "author"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "general"
			if len(args) > 0 {
				mode = args[0]
			}
			var value string
			if len(args) > 1 {
				value = strings.TrimSpace(args[1])
			}

			if limit <= 0 {
				limit = e.cfg.UI.RecommendationLimit
				if value != "" {
					limit = e.cfg.UI.FocusedLimit
				}
			}

			client, err := e.client()
			if err != nil {
				return err
			}

			var set *models.RecommendationSet
			switch mode {
			case "general":
				if value != "" {
					return fmt.Errorf("general recommendations take no value")
				}
				set, err = client.Recommendations(cmd.Context(), limit)
			case "genre":
				set, err = client.RecommendationsByCategory(cmd.Context(), value, limit)
			case "author":
				set, err = client.RecommendationsByAuthor(cmd.Context(), value, limit)
			default:
				return fmt.Errorf("unknown recommendation kind %q (use general, genre or author)", mode)
			}
			if err != nil {
				return err
			}

			return e.emit(set, func() { e.printRecommendations(set) })
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "number of recommendations (default from config)")
	return cmd
}

func (e *env) printRecommendations(set *models.RecommendationSet) {
	switch {
	case set.Category != "":
		fmt.Fprintf(e.out, "Recommended in %s\n", set.Category)
	case set.Author != "":
		fmt.Fprintf(e.out, "Recommended from %s\n", set.Author)
	}
	if len(set.Recommendations) == 0 {
		fmt.Fprintln(e.out, "No recommendations")
		return
	}

	rows := make([][]string, 0, len(set.Recommendations))
	for _, r := range set.Recommendations {
		rows = append(rows, []string{
			strconv.Itoa(r.Score),
			r.Book.Title,
			r.Book.Author,
			r.Book.CategoryName,
			r.Reason,
		})
	}
	e.table([]string{"Score", "Title", "Author", "Genre", "Reason"}, rows)
}

// firstLine returns the first line of s cut to n runes
func firstLine(s string, n int) string {
	s, _, _ = strings.Cut(s, "\n")
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
