// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for browsing the contact store
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"attrib/db"
	"attrib/models"

	"github.com/google/uuid"
)

// ListContactsCommand lists contacts.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or company")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	contacts, err := db.FindContacts(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	// Pretty print results
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tCOMPANY\tSOURCES\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t-------\t-------\t--")

	for _, contact := range contacts {
		email := contact.Email
		if email == "" {
			email = "-"
		}
		phone := contact.Phone
		if phone == "" {
			phone = "-"
		}
		company := contact.Company
		if company == "" {
			company = "-"
		}
		sources := strings.Join(contact.LeadSources(), ",")
		if sources == "" {
			sources = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			contact.Name, email, phone, company, sources, contact.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// ShowContactCommand prints one contact with its source payloads.
func ShowContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-contact", flag.ExitOnError)
	email := fs.String("email", "", "Look up by email")
	_ = fs.Parse(args)

	var contact *models.Contact
	var err error

	if *email != "" {
		contact, err = db.GetContactByEmail(database, *email)
		if err != nil {
			return fmt.Errorf("failed to look up contact: %w", err)
		}
	} else {
		if fs.NArg() == 0 {
			return fmt.Errorf("contact ID or --email is required")
		}
		id, parseErr := uuid.Parse(fs.Arg(0))
		if parseErr != nil {
			return fmt.Errorf("invalid contact ID: %w", parseErr)
		}
		contact, err = db.GetContact(database, id)
		if err != nil {
			return fmt.Errorf("failed to look up contact: %w", err)
		}
	}

	if contact == nil {
		fmt.Println("Contact not found")
		return nil
	}

	fmt.Printf("Name:     %s\n", contact.Name)
	fmt.Printf("ID:       %s\n", contact.ID)
	if contact.Email != "" {
		fmt.Printf("Email:    %s\n", contact.Email)
	}
	if contact.Phone != "" {
		fmt.Printf("Phone:    %s\n", contact.Phone)
	}
	if contact.Company != "" {
		fmt.Printf("Company:  %s\n", contact.Company)
	}
	if contact.Title != "" {
		fmt.Printf("Title:    %s\n", contact.Title)
	}
	fmt.Printf("Sources:  %s (%d)\n", strings.Join(contact.LeadSources(), ", "), contact.SourcesCount)
	if contact.LastActivityAt != nil {
		fmt.Printf("Activity: %s\n", contact.LastActivityAt.Format("2006-01-02 15:04"))
	}
	if contact.Notes != "" {
		fmt.Printf("Notes:\n%s\n", contact.Notes)
	}

	payloads, err := db.GetSourcePayloads(database, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load source payloads: %w", err)
	}
	if len(payloads) > 0 {
		fmt.Println("\nSource records:")
		for _, p := range payloads {
			fmt.Printf("  %s (%s), imported %s\n", p.Source, p.SourceID, p.ImportedAt.Format("2006-01-02 15:04"))
		}
	}

	return nil
}
