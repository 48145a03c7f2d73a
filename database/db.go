package database

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/reconlabs/recon/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}

	// The database may still be starting up; retry the ping briefly before
	// giving up.
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 5)
	err = backoff.Retry(db.Ping, policy)
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}

	err = createUploadJobTable(db)
	if err != nil {
		return nil, err
	}
	err = createSubmittedRecordTable(db)
	if err != nil {
		return nil, err
	}
	err = createReferenceRecordTable(db)
	if err != nil {
		return nil, err
	}
	err = createVerdictTable(db)
	if err != nil {
		return nil, err
	}
	err = createAuditEntryTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createUploadJobTable creates a PostgreSQL table for the UploadJob struct.
// The unique file_hash constraint is what makes job creation idempotent.
func createUploadJobTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS upload_jobs (
			id SERIAL PRIMARY KEY,
			job_id TEXT NOT NULL UNIQUE,
			file_name TEXT NOT NULL,
			file_hash TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'processing',
			total_records INT NOT NULL DEFAULT 0,
			uploaded_by TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createSubmittedRecordTable creates a PostgreSQL table for the SubmittedRecord struct
func createSubmittedRecordTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS submitted_records (
			id SERIAL PRIMARY KEY,
			record_id TEXT NOT NULL UNIQUE,
			job_id TEXT NOT NULL REFERENCES upload_jobs(job_id),
			transaction_id TEXT,
			amount NUMERIC,
			reference_number TEXT,
			date TIMESTAMP,
			raw_data JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_submitted_records_job ON submitted_records(job_id);
		CREATE INDEX IF NOT EXISTS idx_submitted_records_txn ON submitted_records(transaction_id)
	`)
	return err
}

// createReferenceRecordTable creates a PostgreSQL table for the ReferenceRecord struct
func createReferenceRecordTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reference_records (
			id SERIAL PRIMARY KEY,
			reference_id TEXT NOT NULL UNIQUE,
			transaction_id TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			reference_number TEXT,
			date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_reference_records_txn ON reference_records(transaction_id);
		CREATE INDEX IF NOT EXISTS idx_reference_records_ref ON reference_records(reference_number)
	`)
	return err
}

// createVerdictTable creates a PostgreSQL table for the ReconciliationVerdict
// struct. record_id is nullable (duplicates and failed inserts still get a
// verdict); the partial unique index backs the per-record upsert.
func createVerdictTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_verdicts (
			id SERIAL PRIMARY KEY,
			verdict_id TEXT NOT NULL UNIQUE,
			record_id TEXT,
			job_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('matched', 'partially_matched', 'not_matched', 'duplicate')),
			mismatch_fields TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_verdicts_record ON reconciliation_verdicts(record_id)
			WHERE record_id IS NOT NULL
	`)
	return err
}

// createAuditEntryTable creates a PostgreSQL table for the AuditEntry struct.
// A trigger rejects UPDATE and DELETE so immutability is enforced at the
// persistence boundary, not in application code.
func createAuditEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_entries (
			id SERIAL PRIMARY KEY,
			audit_id TEXT NOT NULL UNIQUE,
			record_id TEXT,
			actor_id TEXT,
			old_value JSONB,
			new_value JSONB NOT NULL,
			source TEXT NOT NULL CHECK (source IN ('upload', 'manual-correction', 'seed', 'system')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_audit_entries_record ON audit_entries(record_id);

		CREATE OR REPLACE FUNCTION reject_audit_mutation() RETURNS TRIGGER AS $$
		BEGIN
			RAISE EXCEPTION 'audit entries are immutable';
		END;
		$$ LANGUAGE plpgsql;

		DROP TRIGGER IF EXISTS audit_entries_immutable ON audit_entries;
		CREATE TRIGGER audit_entries_immutable
			BEFORE UPDATE OR DELETE ON audit_entries
			FOR EACH ROW EXECUTE FUNCTION reject_audit_mutation()
	`)
	return err
}
