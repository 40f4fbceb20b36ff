package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Postgres
	PGHost     string `envconfig:"PGHOST"`
	PGPort     uint   `envconfig:"PGPORT" default:"5432"`
	PGUser     string `envconfig:"PGUSER"`
	PGPassword string `envconfig:"PGPASSWORD"`
	PGDatabase string `envconfig:"PGDATABASE"`
	PGSchema   string `envconfig:"PGSCHEMA" default:"public"`
	PGSSLMode  string `envconfig:"PGSQLMODE" default:"require"`
	PGRootCert string `envconfig:"PGROOTCERT"`

	// Object storage (S3-compatible)
	S3Endpoint  string `envconfig:"S3ENDPOINT"`
	S3AccessKey string `envconfig:"S3ACCESSKEY"`
	S3SecretKey string `envconfig:"S3SECRETKEY"`
	S3Region    string `envconfig:"S3REGION"`
	S3Bucket    string `envconfig:"S3BUCKET"`

	// HubSpot
	HubSpotKey       string `envconfig:"HUBSPOT_KEY"`
	HubSpotOwnerID   string `envconfig:"HUBSPOT_OWNER_ID"`
	TestContactEmail string `envconfig:"TEST_CONTACT_EMAIL"`

	// Outbound mail
	MailerEnabled  bool   `envconfig:"MAILER_ENABLED" default:"false"`
	MailerKey      string `envconfig:"MAILER_KEY"`
	MailerFromName string `envconfig:"MAILER_FROM_NAME"`
	MailerFrom     string `envconfig:"MAILER_FROM"`
	MailerTo       string `envconfig:"MAILER_TO"`

	// Submission limits. ALLOWED_EXTENSIONS is matched against the
	// attachment's suffix verbatim; entries without a leading dot never
	// match and effectively disable that extension.
	MaxFieldLen       int      `envconfig:"MAX_FIELD_LEN" default:"50"`
	MaxFileSize       int64    `envconfig:"MAX_FILE_SIZE" default:"1000000"`
	AllowedExtensions []string `envconfig:"ALLOWED_EXTENSIONS" default:".pdf,.doc,.docx,txt"`

	// Public base URL files are served from, e.g. https://api.galen.agency/file/
	FileBaseURL string `envconfig:"FILE_BASE_URL"`
}
