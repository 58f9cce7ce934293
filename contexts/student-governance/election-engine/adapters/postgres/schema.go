package postgresadapter

import (
	"context"

	"gorm.io/gorm"
)

// Constraint names the repository dispatches on.
const (
	constraintPhaseVersion       = "election_phase_log_pkey"
	constraintCandidateStudent   = "delegate_candidates_student_key"
	constraintDelegateVoteVoter  = "delegate_votes_voter_key"
	constraintDelegateVoteTarget = "delegate_votes_candidate_fkey"
	constraintPartyActiveName    = "parties_active_name_key"
	constraintPartySeatStudent   = "party_seats_student_key"
	constraintCouncilVoteSlot    = "council_votes_delegate_slot_key"
	constraintCouncilVoteParty   = "council_votes_party_fkey"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id                  TEXT PRIMARY KEY,
		registration_number TEXT NOT NULL,
		name                TEXT NOT NULL DEFAULT '',
		school_id           TEXT NOT NULL,
		department_id       TEXT NOT NULL,
		mean_score          DOUBLE PRECISION NOT NULL DEFAULT 0,
		CONSTRAINT students_registration_number_key UNIQUE (registration_number)
	)`,
	`CREATE TABLE IF NOT EXISTS election_phase_log (
		version    BIGINT NOT NULL,
		phase      SMALLINT NOT NULL CHECK (phase BETWEEN 0 AND 6),
		name       TEXT NOT NULL,
		changed_by TEXT NOT NULL,
		reason     TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT election_phase_log_pkey PRIMARY KEY (version)
	)`,
	`CREATE TABLE IF NOT EXISTS delegate_candidates (
		id                  TEXT PRIMARY KEY,
		student_id          TEXT NOT NULL,
		registration_number TEXT NOT NULL DEFAULT '',
		name                TEXT NOT NULL DEFAULT '',
		school_id           TEXT NOT NULL,
		department_id       TEXT NOT NULL,
		manifesto           TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		vote_count          INTEGER NOT NULL DEFAULT 0,
		admin_comment       TEXT NOT NULL DEFAULT '',
		reviewed_by         TEXT NOT NULL DEFAULT '',
		reviewed_at         TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL,
		CONSTRAINT delegate_candidates_student_key UNIQUE (student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS delegate_candidates_department_idx
		ON delegate_candidates (school_id, department_id, status)`,
	`CREATE TABLE IF NOT EXISTS delegate_votes (
		id               TEXT PRIMARY KEY,
		voter_student_id TEXT NOT NULL,
		candidate_id     TEXT NOT NULL,
		school_id        TEXT NOT NULL,
		department_id    TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		CONSTRAINT delegate_votes_voter_key UNIQUE (voter_student_id),
		CONSTRAINT delegate_votes_candidate_fkey FOREIGN KEY (candidate_id)
			REFERENCES delegate_candidates (id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS delegate_votes_candidate_idx ON delegate_votes (candidate_id)`,
	`CREATE TABLE IF NOT EXISTS elected_delegates (
		school_id           TEXT NOT NULL,
		department_id       TEXT NOT NULL,
		student_id          TEXT NOT NULL,
		candidate_id        TEXT NOT NULL,
		name                TEXT NOT NULL DEFAULT '',
		registration_number TEXT NOT NULL DEFAULT '',
		vote_count          INTEGER NOT NULL,
		elected_at          TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (school_id, department_id)
	)`,
	`CREATE INDEX IF NOT EXISTS elected_delegates_student_idx ON elected_delegates (student_id)`,
	`CREATE TABLE IF NOT EXISTS parties (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parties_active_name_key ON parties (lower(name)) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS party_seats (
		party_id   TEXT NOT NULL REFERENCES parties (id) ON DELETE CASCADE,
		slot_id    SMALLINT NOT NULL CHECK (slot_id BETWEEN 0 AND 3),
		seat_index SMALLINT NOT NULL,
		student_id TEXT NOT NULL,
		position   TEXT NOT NULL,
		PRIMARY KEY (party_id, slot_id, seat_index),
		CONSTRAINT party_seats_student_key UNIQUE (student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS council_votes (
		id                  TEXT PRIMARY KEY,
		delegate_student_id TEXT NOT NULL,
		party_id            TEXT NOT NULL,
		slot_id             SMALLINT NOT NULL CHECK (slot_id BETWEEN 0 AND 3),
		created_at          TIMESTAMPTZ NOT NULL,
		CONSTRAINT council_votes_delegate_slot_key UNIQUE (delegate_student_id, slot_id),
		CONSTRAINT council_votes_party_fkey FOREIGN KEY (party_id)
			REFERENCES parties (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS election_outbox (
		outbox_id     TEXT PRIMARY KEY,
		event_type    TEXT NOT NULL,
		partition_key TEXT NOT NULL DEFAULT '',
		payload       JSONB NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending',
		created_at    TIMESTAMPTZ NOT NULL,
		published_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS election_outbox_pending_idx ON election_outbox (status, created_at)`,
}

// Migrate applies the election schema in one transaction. Every statement is
// idempotent.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, statement := range schemaStatements {
			if err := tx.Exec(statement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
