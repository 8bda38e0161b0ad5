package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx is the slice of pgxpool.Pool the stores use. pgxmock satisfies it too.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds Postgres-style ($1, $2, ...) statements.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// mapError translates pgx errors into the package's sentinel errors.
func mapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, key, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %v: %w", entity, key, ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
		}
	}
	return fmt.Errorf("%s %v: %w", entity, key, err)
}

/* ─── Accounts ───────────────────────────────────────────────────────── */

// newAccount carries what registration knows about a user before the row exists.
type newAccount struct {
	Name         string
	Email        string
	PasswordHash string
	AuthToken    string
	TrialEndsAt  time.Time
}

// profileStore persists accounts and the profile/plan document attached to them.
type profileStore interface {
	createProfile(ctx context.Context, a newAccount) (account, error)
	findByEmail(ctx context.Context, email string) (account, error)
	findByID(ctx context.Context, id int) (account, error)
	findByToken(ctx context.Context, token string) (account, error)
	updateProfile(ctx context.Context, id int, p Profile) (account, error)
	markSubscribed(ctx context.Context, id int, subscribed bool) error
}

var accountColumns = []string{
	"id", "name", "email", "password_hash", "auth_token",
	"created_at", "trial_ends_at", "subscribed", "profile",
}

// pgProfileStore keeps accounts in the accounts table. The profile is a
// nullable jsonb column so the plan fields travel with it.
type pgProfileStore struct {
	db dbtx
}

func newPGProfileStore(db dbtx) *pgProfileStore {
	return &pgProfileStore{db: db}
}

func (s *pgProfileStore) createProfile(ctx context.Context, a newAccount) (account, error) {
	query, args, err := psql.
		Insert("accounts").
		Columns("name", "email", "password_hash", "auth_token", "trial_ends_at").
		Values(a.Name, a.Email, a.PasswordHash, a.AuthToken, a.TrialEndsAt).
		Suffix("RETURNING " + strings.Join(accountColumns, ", ")).
		ToSql()
	if err != nil {
		return account{}, fmt.Errorf("build insert account: %w", err)
	}

	acc, err := scanAccount(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return account{}, mapError(err, "account", a.Email)
	}
	return acc, nil
}

func (s *pgProfileStore) findByEmail(ctx context.Context, email string) (account, error) {
	return s.findOne(ctx, sq.Eq{"email": email}, email)
}

func (s *pgProfileStore) findByID(ctx context.Context, id int) (account, error) {
	return s.findOne(ctx, sq.Eq{"id": id}, id)
}

func (s *pgProfileStore) findByToken(ctx context.Context, token string) (account, error) {
	// Never echo the token into error text.
	return s.findOne(ctx, sq.Eq{"auth_token": token}, "by token")
}

func (s *pgProfileStore) findOne(ctx context.Context, where sq.Eq, key any) (account, error) {
	query, args, err := psql.
		Select(accountColumns...).
		From("accounts").
		Where(where).
		ToSql()
	if err != nil {
		return account{}, fmt.Errorf("build select account: %w", err)
	}

	acc, err := scanAccount(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return account{}, mapError(err, "account", key)
	}
	return acc, nil
}

// updateProfile replaces the stored profile document and returns the account.
func (s *pgProfileStore) updateProfile(ctx context.Context, id int, p Profile) (account, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return account{}, fmt.Errorf("marshal profile: %w", err)
	}

	query, args, err := psql.
		Update("accounts").
		Set("profile", string(doc)).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(accountColumns, ", ")).
		ToSql()
	if err != nil {
		return account{}, fmt.Errorf("build update profile: %w", err)
	}

	acc, err := scanAccount(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return account{}, mapError(err, "account", id)
	}
	return acc, nil
}

func (s *pgProfileStore) markSubscribed(ctx context.Context, id int, subscribed bool) error {
	query, args, err := psql.
		Update("accounts").
		Set("subscribed", subscribed).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update subscribed: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}

// scanAccount reads one row in accountColumns order.
func scanAccount(row pgx.Row) (account, error) {
	var (
		a   account
		doc []byte
	)
	if err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.AuthToken,
		&a.CreatedAt, &a.TrialEndsAt, &a.Subscribed, &doc,
	); err != nil {
		return account{}, err
	}

	if len(doc) > 0 {
		var p Profile
		if err := json.Unmarshal(doc, &p); err != nil {
			return account{}, fmt.Errorf("unmarshal profile: %w", err)
		}
		a.Profile = &p
	}
	return a, nil
}
