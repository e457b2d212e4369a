// Package sqlstore persists submissions in a relational database. The
// production deployment targets MySQL; the sqlite3 driver is supported for
// local use and tests. Photo bytes are stored inline with the row.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

type Store struct {
	db     *sql.DB
	driver string
}

// Open dials the configured database, fails fast if it cannot be reached
// within the configured timeout, and brings the schema up to date.
// Connection establishment is not retried here: that is a caller concern.
func Open(cfg config.DB) (*Store, error) {
	var dsn string
	switch cfg.Driver {
	case "sqlite3":
		dsn = cfg.SQLitePath
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.Timeout = cfg.Timeout
		mc.ReadTimeout = cfg.Timeout
		mc.WriteTimeout = cfg.Timeout
		mc.ParseTime = true
		dsn = mc.FormatDSN()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	s, err := New(db, cfg.Driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-open connection and runs the migrations for the
// given driver. Tests use it with an sqlite3 database file.
func New(db *sql.DB, driverName string) (*Store, error) {
	if err := migrateDB(db, driverName); err != nil {
		return nil, err
	}
	return &Store{db: db, driver: driverName}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Columns() []string {
	return []string{
		"id", "submission_id", "name", "committee",
		"social_media_links", "email", "phone", "photo_filename", "submission_date",
	}
}

// translateErr maps driver errors onto the store error taxonomy. The
// submission_id uniqueness constraint is enforced by the database itself;
// its violation surfaces as ErrDuplicateSubmissionID.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return store.ErrDuplicateSubmissionID
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return store.ErrDuplicateSubmissionID
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

func (s *Store) Create(ctx context.Context, sub *model.Submission) (int, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions
			(submission_id, name, committee, social_media_links, email, phone, photo_filename, photo_data, submission_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.SubmissionID,
		sub.Name,
		sub.Committee,
		sub.SocialMediaLinks,
		sub.Email,
		sub.Phone,
		sub.PhotoFilename,
		sub.PhotoData,
		now,
	)
	if err != nil {
		return 0, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	sub.ID = int(id)
	sub.SubmissionDate = now
	return sub.ID, nil
}

const listColumns = `
	id, submission_id, name, committee,
	COALESCE(social_media_links, ''), COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(photo_filename, ''), submission_date`

func (s *Store) List(ctx context.Context, f store.Filter) ([]model.Submission, error) {
	query := `SELECT` + listColumns + ` FROM submissions`

	var conds []string
	var args []any
	if f.Committee != "" {
		conds = append(conds, "committee = ?")
		args = append(args, f.Committee)
	}
	if f.NameSearch != "" {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.NameSearch)+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submission_date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		err = rows.Scan(
			&sub.ID, &sub.SubmissionID, &sub.Name, &sub.Committee,
			&sub.SocialMediaLinks, &sub.Email, &sub.Phone, &sub.PhotoFilename,
			&sub.SubmissionDate,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int) (*model.Submission, error) {
	return s.get(ctx, "id = ?", id)
}

func (s *Store) GetBySubmissionID(ctx context.Context, submissionID string) (*model.Submission, error) {
	return s.get(ctx, "submission_id = ?", submissionID)
}

func (s *Store) get(ctx context.Context, cond string, arg any) (*model.Submission, error) {
	var sub model.Submission
	err := s.db.QueryRowContext(ctx, `
		SELECT`+listColumns+`, photo_data
		FROM submissions
		WHERE `+cond,
		arg,
	).Scan(
		&sub.ID, &sub.SubmissionID, &sub.Name, &sub.Committee,
		&sub.SocialMediaLinks, &sub.Email, &sub.Phone, &sub.PhotoFilename,
		&sub.SubmissionDate,
		&sub.PhotoData,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return &sub, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n)
	if err != nil {
		return 0, translateErr(err)
	}
	return n, nil
}

func (s *Store) CountByCommittee(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT committee, COUNT(*)
		FROM submissions
		GROUP BY committee`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var committee string
		var n int
		if err := rows.Scan(&committee, &n); err != nil {
			return nil, err
		}
		counts[committee] = n
	}
	return counts, rows.Err()
}

// Photos returns all submissions that carry photo bytes, most recent first.
func (s *Store) Photos(ctx context.Context) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT submission_id, name, COALESCE(photo_filename, ''), photo_data
		FROM submissions
		WHERE photo_data IS NOT NULL
		ORDER BY submission_date DESC`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		err = rows.Scan(&sub.SubmissionID, &sub.Name, &sub.PhotoFilename, &sub.PhotoData)
		if err != nil {
			return nil, err
		}
		if !sub.HasPhoto() {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
