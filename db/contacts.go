// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations and the lookup queries the resolver needs
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"attrib/models"

	"github.com/google/uuid"
)

const contactColumns = `id, name, email, phone, company, title, lead_source, notes, sources_count, last_activity_at, created_at, updated_at`

func scanContact(scan func(dest ...any) error) (*models.Contact, error) {
	contact := &models.Contact{}
	var lastActivity sql.NullTime

	err := scan(
		&contact.ID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.Title,
		&contact.LeadSource,
		&contact.Notes,
		&contact.SourcesCount,
		&lastActivity,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActivity.Valid {
		contact.LastActivityAt = &lastActivity.Time
	}

	return contact, nil
}

func scanContacts(rows *sql.Rows) ([]models.Contact, error) {
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	contact.Email = models.NormalizeEmail(contact.Email)
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO contacts (id, name, email, phone, normalized_phone, company, title, lead_source, notes, sources_count, last_activity_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.Email, contact.Phone, models.NormalizePhone(contact.Phone),
		contact.Company, contact.Title, contact.LeadSource, contact.Notes, contact.SourcesCount,
		contact.LastActivityAt, contact.CreatedAt, contact.UpdatedAt)

	return err
}

// CreateContactWithSource inserts a contact and its originating source
// payload in one transaction. A unique-email constraint violation rolls
// the whole insert back; callers treat that as "someone else created this
// contact first" and retry as a lookup.
func CreateContactWithSource(db *sql.DB, contact *models.Contact, payload *models.SourcePayload) error {
	contact.ID = uuid.New()
	contact.Email = models.NormalizeEmail(contact.Email)
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`
		INSERT INTO contacts (id, name, email, phone, normalized_phone, company, title, lead_source, notes, sources_count, last_activity_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.Email, contact.Phone, models.NormalizePhone(contact.Phone),
		contact.Company, contact.Title, contact.LeadSource, contact.Notes, contact.SourcesCount,
		contact.LastActivityAt, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return err
	}

	if payload != nil {
		payload.ContactID = contact.ID
		if err := upsertSourcePayload(tx, payload); err != nil {
			return fmt.Errorf("failed to store source payload: %w", err)
		}
	}

	return tx.Commit()
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())

	contact, err := scanContact(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

// GetContactByEmail looks up a contact by normalized email. Returns nil
// when no contact has that address.
func GetContactByEmail(db *sql.DB, email string) (*models.Contact, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, nil
	}

	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE email = ?`, normalized)

	contact, err := scanContact(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

// FindContactsByCanonicalEmail matches plus-addressed variants of an
// address: the canonical form itself plus any "local+tag@domain" stored
// emails. The exact normalized address is excluded since callers check
// that separately.
func FindContactsByCanonicalEmail(db *sql.DB, email string) ([]models.Contact, error) {
	canonical := models.CanonicalEmail(email)
	at := strings.LastIndex(canonical, "@")
	if at <= 0 {
		return nil, nil
	}

	local := canonical[:at]
	domain := canonical[at+1:]
	pattern := local + "+%@" + domain

	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE (email = ? OR email LIKE ?) AND email != ?
		ORDER BY created_at ASC
	`, canonical, pattern, models.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return scanContacts(rows)
}

// FindContactsByPhone looks up contacts by normalized phone number.
func FindContactsByPhone(db *sql.DB, phone string) ([]models.Contact, error) {
	normalized := models.NormalizePhone(phone)
	if normalized == "" {
		return nil, nil
	}

	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE normalized_phone = ?
		ORDER BY created_at ASC
	`, normalized)
	if err != nil {
		return nil, err
	}

	return scanContacts(rows)
}

// FindContactsForFuzzy returns a coarse prefilter of contacts whose name
// contains the given token or whose company matches exactly. The resolver
// applies the real similarity comparison in memory.
func FindContactsForFuzzy(db *sql.DB, nameToken, company string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 200
	}

	nameToken = strings.ToLower(strings.TrimSpace(nameToken))
	company = strings.ToLower(strings.TrimSpace(company))
	if nameToken == "" && company == "" {
		return nil, nil
	}

	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE (? != '' AND LOWER(name) LIKE ?) OR (? != '' AND LOWER(company) = ?)
		ORDER BY created_at ASC
		LIMIT ?
	`, nameToken, "%"+nameToken+"%", company, company, limit)
	if err != nil {
		return nil, err
	}

	return scanContacts(rows)
}

func FindContacts(db *sql.DB, query string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error

	if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, searchPattern, searchPattern, searchPattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}

	return scanContacts(rows)
}

// ApplyMerge persists a merged contact and the incoming source payload in
// one transaction, so a failed write never leaves a partially merged
// contact behind. When the merge changed nothing, the contact row is left
// untouched and only the payload is stored.
func ApplyMerge(db *sql.DB, contact *models.Contact, changed bool, payload *models.SourcePayload) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if changed {
		contact.UpdatedAt = time.Now()
		_, err = tx.Exec(`
			UPDATE contacts
			SET name = ?, email = ?, phone = ?, normalized_phone = ?, company = ?, title = ?,
			    lead_source = ?, notes = ?, sources_count = ?, last_activity_at = ?, updated_at = ?
			WHERE id = ?
		`, contact.Name, models.NormalizeEmail(contact.Email), contact.Phone, models.NormalizePhone(contact.Phone),
			contact.Company, contact.Title, contact.LeadSource, contact.Notes, contact.SourcesCount,
			contact.LastActivityAt, contact.UpdatedAt, contact.ID.String())
		if err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
	}

	if payload != nil {
		payload.ContactID = contact.ID
		if err := upsertSourcePayload(tx, payload); err != nil {
			return fmt.Errorf("failed to store source payload: %w", err)
		}
	}

	return tx.Commit()
}
