package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=asientos_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannelID = "AdisWeb"
const defaultChannelKey = "AdisWebKey001"
const defaultCompanyCode = "ADIS"
const defaultHTTPAddr = ":8080"

// AccountDefaults are the fixed ledger accounts the posting templates use
// when a movement is not posted to a user-selected account. Defaults
// follow the Spanish general chart of accounts (PGC).
type AccountDefaults struct {
	Cash                  string
	VATDeductible         string
	VATOutput             string
	WithholdingPayable    string
	WithholdingReceivable string
}

type Config struct {
	DatabaseDriver string // postgres, sqlite or memory
	DatabaseDSN    string
	SQLitePath     string
	MigrationsDir  string
	HTTPAddr       string
	ChannelID      string
	ChannelKey     string
	ChannelKeyHash string
	CompanyCode    string
	MasterDataFile string
	Accounts       AccountDefaults
}

func Load() (Config, error) {
	// Optional .env file for local development; absence is not an error.
	_ = godotenv.Load()

	conn := envOrDefault("DATABASE_DSN", defaultConnectionString)

	driver := strings.ToLower(envOrDefault("DB_DRIVER", "postgres"))

	return Config{
		DatabaseDriver: driver,
		DatabaseDSN:    normalizeConnectionString(conn),
		SQLitePath:     envOrDefault("SQLITE_PATH", filepath.Join("data", "asientos.db")),
		MigrationsDir:  envOrDefault("MIGRATIONS_DIR", "migrations"),
		HTTPAddr:       envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		ChannelID:      envOrDefault("CHANNEL_ID", defaultChannelID),
		ChannelKey:     envOrDefault("CHANNEL_KEY", defaultChannelKey),
		ChannelKeyHash: strings.TrimSpace(os.Getenv("CHANNEL_KEY_HASH")),
		CompanyCode:    envOrDefault("COMPANY_CODE", defaultCompanyCode),
		MasterDataFile: strings.TrimSpace(os.Getenv("MASTER_DATA_FILE")),
		Accounts: AccountDefaults{
			Cash:                  envOrDefault("CASH_ACCOUNT", "570000000"),
			VATDeductible:         envOrDefault("VAT_DEDUCTIBLE_ACCOUNT", "472000000"),
			VATOutput:             envOrDefault("VAT_OUTPUT_ACCOUNT", "477000000"),
			WithholdingPayable:    envOrDefault("WITHHOLDING_PAYABLE_ACCOUNT", "475100000"),
			WithholdingReceivable: envOrDefault("WITHHOLDING_RECEIVABLE_ACCOUNT", "473000000"),
		},
	}, nil
}

// FiscalYear derives the counter scope year from an entry date.
func FiscalYear(date time.Time) int {
	return date.Year()
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
