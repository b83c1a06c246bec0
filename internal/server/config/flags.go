package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/linkdir/internal/flagx"
)

// parseFlags overlays the subset of settings exposed on the command line.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN; empty keeps the in-memory store
//	-s string   JWT HMAC secret key
//	-b string   public base URL used in emailed links
//	-m string   mail driver: log, smtp, mailjet or kafka
//	-r string   Redis address for the signin cooldown
//	-p          production mode (Secure cookies)
//
// Other arguments are filtered out first so -c/-config and foreign flags
// never reach this flag set.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-b", "-m", "-r", "-p"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")
	fs.StringVar(&config.MailDriver, "m", config.MailDriver, "mail driver")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.BoolVar(&config.Production, "p", config.Production, "production mode")

	return fs.Parse(args)
}
