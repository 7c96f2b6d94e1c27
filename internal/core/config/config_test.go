package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
  http:
    port: 9000
jwt:
  accessSecret: aaa
  refreshSecret: bbb
db:
  driver: mysql
  dsn: user:pass@tcp(127.0.0.1:3306)/auth
`)

	c := Load(path)
	if c.App.Env != "production" {
		t.Fatalf("env: got %q", c.App.Env)
	}
	if c.App.HTTP.Port != 9000 {
		t.Fatalf("port: got %d", c.App.HTTP.Port)
	}
	if c.JWT.AccessSecret != "aaa" || c.JWT.RefreshSecret != "bbb" {
		t.Fatal("jwt secrets not loaded")
	}
	if c.DB.Driver != "mysql" {
		t.Fatalf("db driver: got %q", c.DB.Driver)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  accessSecret: aaa
  refreshSecret: bbb
`)

	c := Load(path)
	if c.JWT.AccessTokenTTLMin != 15 {
		t.Fatalf("access ttl default: got %d", c.JWT.AccessTokenTTLMin)
	}
	if c.JWT.RefreshTokenTTLHr != 24 {
		t.Fatalf("refresh ttl default: got %d", c.JWT.RefreshTokenTTLHr)
	}
	if c.App.HTTP.Port != 8080 {
		t.Fatalf("port default: got %d", c.App.HTTP.Port)
	}
	if c.DB.Driver != "postgres" {
		t.Fatalf("driver default: got %q", c.DB.Driver)
	}
}

func TestLoad_EnvOnlyWithoutFile(t *testing.T) {
	t.Setenv("APP_JWT_ACCESSSECRET", "env-access")
	t.Setenv("APP_JWT_REFRESHSECRET", "env-refresh")
	t.Setenv("APP_DB_DSN", "host=127.0.0.1 user=auth dbname=auth")

	// 配置文件不存在，仅靠环境变量也要能启动
	c := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if c.JWT.AccessSecret != "env-access" {
		t.Fatalf("access secret from env: got %q", c.JWT.AccessSecret)
	}
	if c.JWT.RefreshSecret != "env-refresh" {
		t.Fatalf("refresh secret from env: got %q", c.JWT.RefreshSecret)
	}
	if c.DB.DSN != "host=127.0.0.1 user=auth dbname=auth" {
		t.Fatalf("dsn from env: got %q", c.DB.DSN)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  accessSecret: from-file
  refreshSecret: bbb
`)
	t.Setenv("APP_JWT_ACCESSSECRET", "from-env")

	c := Load(path)
	if c.JWT.AccessSecret != "from-env" {
		t.Fatalf("env override: got %q", c.JWT.AccessSecret)
	}
}
