package sqlstore

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"staff_reviews/internal/domain"
)

// MySQL error numbers for foreign key violations.
const (
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// translate maps driver constraint errors onto domain.ErrConflict and leaves
// everything else untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlRowIsReferenced || me.Number == mysqlNoReferencedRow) {
		return fmt.Errorf("%w: %s", domain.ErrConflict, me.Message)
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("%w: %s", domain.ErrConflict, se.Error())
	}
	return err
}
