package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseSensitiveEmailSQL(t *testing.T) {
	stmt := caseSensitiveEmailSQL("mysql")
	assert.Contains(t, stmt, "MODIFY email")
	assert.Contains(t, stmt, "COLLATE utf8mb4_bin")
	assert.Contains(t, stmt, "varchar(255)", "must keep the size the model declares")

	assert.Empty(t, caseSensitiveEmailSQL("sqlite"))
	assert.Empty(t, caseSensitiveEmailSQL("postgres"))
}
