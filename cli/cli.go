// Package cli implements the interactive numbered menu shared by the
// portal-db and portal-file binaries. The menu is backend-agnostic: it only
// talks to the service layer.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store"
)

type Menu struct {
	svc *service.Service
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *service.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run loops over the menu until the user exits or input ends. Errors from
// individual operations are reported and the menu re-prompts; they are
// never fatal.
func (m *Menu) Run(ctx context.Context) {
	for {
		m.printMenu()
		choice, ok := m.prompt("Enter your choice (1-8): ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			m.addRegistration(ctx)
		case "2":
			m.viewRegistrations(ctx)
		case "3":
			m.deleteRegistration(ctx)
		case "4":
			m.searchByName(ctx)
		case "5":
			m.viewStatistics(ctx)
		case "6":
			m.exportCSV(ctx)
		case "7":
			m.seedSampleData(ctx)
		case "8":
			fmt.Fprintln(m.out, "Goodbye!")
			return
		default:
			fmt.Fprintf(m.out, "Invalid choice %q, please select 1-8.\n", choice)
		}
	}
}

func (m *Menu) printMenu() {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, line)
	fmt.Fprintln(m.out, "COMMITTEE REGISTRATION MANAGEMENT")
	fmt.Fprintln(m.out, line)
	fmt.Fprintln(m.out, "1. Add new registration")
	fmt.Fprintln(m.out, "2. View registrations")
	fmt.Fprintln(m.out, "3. Delete registration")
	fmt.Fprintln(m.out, "4. Search by name")
	fmt.Fprintln(m.out, "5. View statistics")
	fmt.Fprintln(m.out, "6. Export to CSV")
	fmt.Fprintln(m.out, "7. Seed sample data")
	fmt.Fprintln(m.out, "8. Exit")
	fmt.Fprintln(m.out, line)
}

// prompt prints the message and reads one trimmed line. ok is false when
// input is exhausted.
func (m *Menu) prompt(msg string) (line string, ok bool) {
	fmt.Fprint(m.out, msg)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptRequired re-prompts until the user enters a non-empty value.
func (m *Menu) promptRequired(msg string) (line string, ok bool) {
	for {
		line, ok = m.prompt(msg)
		if !ok || line != "" {
			return line, ok
		}
		fmt.Fprintln(m.out, "This field is required.")
	}
}

func (m *Menu) addRegistration(ctx context.Context) {
	fmt.Fprintln(m.out, "\nADD NEW REGISTRATION")

	name, ok := m.promptRequired("Full name: ")
	if !ok {
		return
	}
	committee, ok := m.promptRequired("Committee: ")
	if !ok {
		return
	}
	social, ok := m.prompt("Social media links (optional): ")
	if !ok {
		return
	}
	email, ok := m.prompt("Email (optional): ")
	if !ok {
		return
	}
	phone, ok := m.prompt("Phone (optional): ")
	if !ok {
		return
	}

	sub, err := m.svc.Register(ctx, service.RegisterInput{
		Name:             name,
		Committee:        committee,
		SocialMediaLinks: social,
		Email:            email,
		Phone:            phone,
	})
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(m.out, "Cannot register: %s.\n", ve)
			return
		}
		fmt.Fprintf(m.out, "Failed to add registration: %s\n", err)
		return
	}

	fmt.Fprintln(m.out, "Record added successfully!")
	fmt.Fprintf(m.out, "Submission ID: %s\n", sub.SubmissionID)
}

func (m *Menu) viewRegistrations(ctx context.Context) {
	fmt.Fprintln(m.out, "\nVIEW REGISTRATIONS")

	committee, ok := m.prompt("Filter by committee (optional): ")
	if !ok {
		return
	}
	name, ok := m.prompt("Search by name (optional): ")
	if !ok {
		return
	}
	rawLimit, ok := m.prompt("Limit results (optional): ")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 0 {
		limit = 0
	}

	subs, err := m.svc.List(ctx, store.Filter{
		Committee:  committee,
		NameSearch: name,
		Limit:      limit,
	})
	if err != nil {
		fmt.Fprintf(m.out, "Failed to load registrations: %s\n", err)
		return
	}

	m.printRecords(subs)
}

func (m *Menu) printRecords(subs []model.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(m.out, "No records found.")
		return
	}

	fmt.Fprintf(m.out, "Found %d record(s):\n", len(subs))
	for _, sub := range subs {
		fmt.Fprintln(m.out, strings.Repeat("-", 50))
		fmt.Fprintf(m.out, "ID:            %d\n", sub.ID)
		fmt.Fprintf(m.out, "Submission ID: %s\n", sub.SubmissionID)
		fmt.Fprintf(m.out, "Name:          %s\n", sub.Name)
		fmt.Fprintf(m.out, "Committee:     %s\n", sub.Committee)
		fmt.Fprintf(m.out, "Date:          %s\n", sub.SubmissionDate.Format("2006-01-02 15:04:05"))
		if sub.SocialMediaLinks != "" {
			fmt.Fprintf(m.out, "Social media:  %s\n", sub.SocialMediaLinks)
		}
		if sub.Email != "" {
			fmt.Fprintf(m.out, "Email:         %s\n", sub.Email)
		}
		if sub.Phone != "" {
			fmt.Fprintf(m.out, "Phone:         %s\n", sub.Phone)
		}
		if sub.PhotoFilename != "" {
			fmt.Fprintf(m.out, "Photo:         %s\n", sub.PhotoFilename)
		}
	}
}

func (m *Menu) deleteRegistration(ctx context.Context) {
	fmt.Fprintln(m.out, "\nDELETE REGISTRATION")
	fmt.Fprintln(m.out, "1. Delete by submission ID")
	fmt.Fprintln(m.out, "2. Delete by database ID")

	choice, ok := m.prompt("Enter choice (1-2): ")
	if !ok {
		return
	}

	var sub *model.Submission
	var err error
	switch choice {
	case "1":
		sid, ok := m.prompt("Submission ID: ")
		if !ok || sid == "" {
			fmt.Fprintln(m.out, "Submission ID is required.")
			return
		}
		sub, err = m.svc.GetBySubmissionID(ctx, strings.ToUpper(sid))
	case "2":
		raw, ok := m.prompt("Database ID: ")
		if !ok {
			return
		}
		id, convErr := strconv.Atoi(raw)
		if convErr != nil {
			fmt.Fprintln(m.out, "Invalid database ID.")
			return
		}
		sub, err = m.svc.Get(ctx, id)
	default:
		fmt.Fprintln(m.out, "Invalid choice.")
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(m.out, "No record found.")
		return
	}
	if err != nil {
		fmt.Fprintf(m.out, "Failed to look up record: %s\n", err)
		return
	}

	fmt.Fprintln(m.out, "Record to delete:")
	fmt.Fprintf(m.out, "  Name:      %s\n", sub.Name)
	fmt.Fprintf(m.out, "  Committee: %s\n", sub.Committee)
	fmt.Fprintf(m.out, "  Date:      %s\n", sub.SubmissionDate.Format("2006-01-02 15:04:05"))

	confirm, ok := m.prompt("Are you sure you want to delete this record? (yes/no): ")
	if !ok || strings.ToLower(confirm) != "yes" {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return
	}

	if err := m.svc.Remove(ctx, sub.ID); err != nil {
		fmt.Fprintf(m.out, "Failed to delete record: %s\n", err)
		return
	}
	fmt.Fprintln(m.out, "Record deleted successfully!")
}

func (m *Menu) searchByName(ctx context.Context) {
	fmt.Fprintln(m.out, "\nSEARCH BY NAME")

	term, ok := m.prompt("Search term: ")
	if !ok {
		return
	}
	if term == "" {
		fmt.Fprintln(m.out, "Search term is required.")
		return
	}

	subs, err := m.svc.List(ctx, store.Filter{NameSearch: term})
	if err != nil {
		fmt.Fprintf(m.out, "Search failed: %s\n", err)
		return
	}
	m.printRecords(subs)
}

func (m *Menu) viewStatistics(ctx context.Context) {
	fmt.Fprintln(m.out, "\nSTATISTICS")

	stats, err := m.svc.Stats(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to load statistics: %s\n", err)
		return
	}

	fmt.Fprintf(m.out, "Total registrations:   %d\n", stats.Total)
	fmt.Fprintf(m.out, "Recent (last 7 days):  %d\n", stats.RecentLast7Days)
	fmt.Fprintf(m.out, "With social media:     %d\n", stats.WithSocialMedia)
	if len(stats.ByCommittee) > 0 {
		fmt.Fprintln(m.out, "Registrations by committee:")
		for committee, n := range stats.ByCommittee {
			fmt.Fprintf(m.out, "  %s: %d\n", committee, n)
		}
	}
}

func (m *Menu) exportCSV(ctx context.Context) {
	fmt.Fprintln(m.out, "\nEXPORT TO CSV")

	name, ok := m.prompt("Filename (press Enter for auto-generated): ")
	if !ok {
		return
	}

	written, n, err := m.svc.ExportCSVFile(ctx, name)
	if err != nil {
		fmt.Fprintf(m.out, "Export failed: %s\n", err)
		return
	}
	fmt.Fprintf(m.out, "Exported %d record(s) to %s\n", n, written)
}

func (m *Menu) seedSampleData(ctx context.Context) {
	n, err := m.svc.Seed(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Seeding failed after %d record(s): %s\n", n, err)
		return
	}
	fmt.Fprintf(m.out, "Inserted %d sample record(s).\n", n)
}
