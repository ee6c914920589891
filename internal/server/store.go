package server

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

// Record is a voucher as the service stores and serves it. The identifier
// goes out on the wire as "_id", which the front end remaps.
type Record struct {
	ID              string         `json:"_id"`
	VoucherNumber   string         `json:"voucherNumber"`
	Association     string         `json:"association"`
	FinancialYear   string         `json:"financialYear"`
	Date            string         `json:"date"`
	Payee           string         `json:"payee"`
	Amount          float64        `json:"amount"`
	Purpose         string         `json:"purpose"`
	ApprovedBy      string         `json:"approvedBy"`
	Status          voucher.Status `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// Store persists vouchers in sqlite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS vouchers (
	id               TEXT PRIMARY KEY,
	voucher_number   TEXT NOT NULL,
	association      TEXT NOT NULL DEFAULT '',
	financial_year   TEXT NOT NULL DEFAULT '',
	date             TEXT NOT NULL DEFAULT '',
	payee            TEXT NOT NULL DEFAULT '',
	amount           REAL NOT NULL DEFAULT 0,
	purpose          TEXT NOT NULL DEFAULT '',
	approved_by      TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	rejection_reason TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS voucher_sequences (
	financial_year TEXT PRIMARY KEY,
	last_seq       INTEGER NOT NULL
);
`

// NewStore opens (or creates) the sqlite database at path. Use ":memory:"
// for an ephemeral store.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const recordColumns = `id, voucher_number, association, financial_year, date,
	payee, amount, purpose, approved_by, status, rejection_reason`

// Create inserts a new draft voucher, assigning its identifier and a
// per-financial-year sequential voucher number.
func (s *Store) Create(rec *Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO voucher_sequences (financial_year, last_seq) VALUES (?, 1)
		ON CONFLICT(financial_year) DO UPDATE SET last_seq = last_seq + 1`,
		rec.FinancialYear); err != nil {
		return err
	}

	var seq int
	if err := tx.QueryRow(
		`SELECT last_seq FROM voucher_sequences WHERE financial_year = ?`,
		rec.FinancialYear).Scan(&seq); err != nil {
		return err
	}

	rec.ID = newID()
	rec.VoucherNumber = fmt.Sprintf("NAI/%s/%04d", rec.FinancialYear, seq)
	rec.Status = voucher.StatusDraft

	if _, err := tx.Exec(`
		INSERT INTO vouchers (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VoucherNumber, rec.Association, rec.FinancialYear, rec.Date,
		rec.Payee, rec.Amount, rec.Purpose, rec.ApprovedBy, rec.Status, rec.RejectionReason,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns all vouchers, oldest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT ` + recordColumns + ` FROM vouchers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := scanRecord(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one voucher, or nil when the id is unknown.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM vouchers WHERE id = ?`, id)

	var rec Record
	if err := scanRecord(row.Scan, &rec); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Update replaces a voucher's editable fields.
func (s *Store) Update(rec *Record) error {
	_, err := s.db.Exec(`
		UPDATE vouchers SET association = ?, financial_year = ?, date = ?,
			payee = ?, amount = ?, purpose = ?, approved_by = ?
		WHERE id = ?`,
		rec.Association, rec.FinancialYear, rec.Date,
		rec.Payee, rec.Amount, rec.Purpose, rec.ApprovedBy, rec.ID)
	return err
}

// SetStatus records a status transition together with its side fields.
func (s *Store) SetStatus(id string, status voucher.Status, approvedBy, rejectionReason string) error {
	_, err := s.db.Exec(`
		UPDATE vouchers SET status = ?,
			approved_by = CASE WHEN ? != '' THEN ? ELSE approved_by END,
			rejection_reason = ?
		WHERE id = ?`,
		status, approvedBy, approvedBy, rejectionReason, id)
	return err
}

// Delete removes a voucher.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM vouchers WHERE id = ?`, id)
	return err
}

func scanRecord(scan func(...interface{}) error, rec *Record) error {
	return scan(
		&rec.ID, &rec.VoucherNumber, &rec.Association, &rec.FinancialYear, &rec.Date,
		&rec.Payee, &rec.Amount, &rec.Purpose, &rec.ApprovedBy, &rec.Status, &rec.RejectionReason,
	)
}

// newID produces a 24-character hex identifier, the shape the front end's
// "_id" remapping expects.
func newID() string {
	buf := make([]byte, 12)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
