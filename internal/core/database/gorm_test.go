package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "native dsn untouched",
			in:   "rating:secret@tcp(127.0.0.1:3306)/rating?parseTime=true",
			want: "rating:secret@tcp(127.0.0.1:3306)/rating?parseTime=true",
		},
		{
			name: "url form gets defaults",
			in:   "mysql://rating:secret@db:3306/rating",
			want: "rating:secret@tcp(db:3306)/rating?parseTime=true&charset=utf8mb4",
		},
		{
			name: "overrides and extra params",
			in:   "mysql://ignored:old@db:3306/rating?tls=skip-verify&charset=latin1",
			user: "app", pass: "pw",
			want: "app:pw@tcp(db:3306)/rating?parseTime=true&charset=latin1&tls=skip-verify",
		},
		{
			name: "parseTime can be turned off",
			in:   "mysql://app@db/rating?parseTime=false",
			want: "app@tcp(db)/rating?charset=utf8mb4",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "rating:****@tcp(db:3306)/rating", maskDSN("rating:secret@tcp(db:3306)/rating"))
	assert.Equal(t, "tcp(db:3306)/rating", maskDSN("tcp(db:3306)/rating"))
}

func TestNewGormSQLite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	defer Close(db)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewGormUnsupported(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
