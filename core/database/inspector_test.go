package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE matched (txn_id TEXT, amount_p TEXT, match_pass INTEGER)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "matched")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["txn_id"])
	assert.Equal(t, "integer", colMap["match_pass"])

	names, err := ColumnNames(db, "matched")
	require.NoError(t, err)
	assert.Equal(t, []string{"txn_id", "amount_p", "match_pass"}, names)

	// PRAGMA table_info returns no rows for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("TXN_ID", "VARCHAR(64)", "YES", "", nil, "").
		AddRow("match_pass", "BIGINT", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `matched`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "matched")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "txn_id", columns[0].Field)
	assert.Equal(t, "varchar(64)", columns[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
