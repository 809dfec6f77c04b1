package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDupEntry is the server error code for a violated unique key.
const mysqlDupEntry = 1062

// IsDuplicate reports whether err is a unique-key violation. Store-level
// uniqueness failures are surfaced to callers as validation errors, so every
// repository write funnels through this check.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}

// NullTime maps an optional timestamp to its driver representation.
func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// TimePtr converts a scanned NullTime back into the model's pointer form.
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
