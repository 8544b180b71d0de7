package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DSNValue returns the MySQL DSN, assembling one from host/user/name fields
// when no explicit dsn is configured.
func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = defaultDBUser
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultDBName
	}

	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}

	return mc.FormatDSN()
}
