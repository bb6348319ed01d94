package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "contacts_db", cfg.DBName)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "tmp", cfg.TempDir)
	assert.Equal(t, "public/avatars", cfg.AvatarsDir)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("EMAIL_USER", "mailer@x.com")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "mailer@x.com", cfg.SMTPUser)
	// MAIL_FROM falls back to EMAIL_USER
	assert.Equal(t, "mailer@x.com", cfg.MailFrom)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-duration")
	t.Setenv("BCRYPT_COST", "lots")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "h", DBPort: "5433", DBUser: "u",
		DBPassword: "p", DBName: "d", DBSSLMode: "disable",
	}
	assert.Equal(t, "host=h user=u password=p dbname=d port=5433 sslmode=disable TimeZone=UTC", cfg.DSN())
}
