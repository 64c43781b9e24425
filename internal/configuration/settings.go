package configuration

import (
	"fmt"
	"log/slog"
	"time"
)

// Setting keys, as read from dotenv files or the environment.
const (
	// SettingFTPUser is the FTP login user (anonymous when empty).
	SettingFTPUser = "TREESIFT_FTP_USER"
	// SettingFTPPassword is the FTP login password.
	SettingFTPPassword = "TREESIFT_FTP_PASSWORD"
	// SettingFTPPort is the FTP port used when a target URL has none.
	SettingFTPPort = "TREESIFT_FTP_PORT"
	// SettingFTPTimeout is the FTP dial timeout (a duration or seconds).
	SettingFTPTimeout = "TREESIFT_FTP_TIMEOUT"
	// SettingFTPTLSSkipVerify disables FTPS certificate verification.
	SettingFTPTLSSkipVerify = "TREESIFT_FTP_TLS_SKIP_VERIFY"
	// SettingFTPDisableEPSV makes FTP data connections use PASV only.
	SettingFTPDisableEPSV = "TREESIFT_FTP_DISABLE_EPSV"
	// SettingS3Region is the AWS region of the bucket.
	SettingS3Region = "TREESIFT_S3_REGION"
	// SettingS3Endpoint is a custom S3-compatible endpoint URL.
	SettingS3Endpoint = "TREESIFT_S3_ENDPOINT"
	// SettingS3AccessKey is the static S3 access key.
	SettingS3AccessKey = "TREESIFT_S3_ACCESS_KEY"
	// SettingS3SecretKey is the static S3 secret key.
	SettingS3SecretKey = "TREESIFT_S3_SECRET_KEY" //nolint:gosec
	// SettingS3SessionToken is the session token of temporary credentials.
	SettingS3SessionToken = "TREESIFT_S3_SESSION_TOKEN" //nolint:gosec
	// SettingLogLevel is the log level (debug, info, warn, error).
	SettingLogLevel = "TREESIFT_LOG_LEVEL"
)

// Settings are the typed settings of the command line tool. Credentials given
// in a target URL take precedence over these.
type Settings struct {
	FTPUser          string
	FTPPassword      string
	FTPTimeout       time.Duration
	FTPTLSSkipVerify bool
	FTPDisableEPSV   bool

	// FTPPort is -1 when unset or malformed.
	FTPPort int

	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3SessionToken string

	LogLevel slog.Level
}

// Load reads the given dotenv files (none is allowed) and maps them into
// [Settings].
func (c *Handler) Load(filenames ...string) (*Settings, error) {
	configMap, err := c.ReadGeneric(filenames...)
	if err != nil {
		return nil, fmt.Errorf("(config) failed to read configuration files: %w", err)
	}

	settings := &Settings{
		FTPUser:          c.MapKeyToString(configMap, SettingFTPUser),
		FTPPassword:      c.MapKeyToString(configMap, SettingFTPPassword),
		FTPTimeout:       c.MapKeyToDuration(configMap, SettingFTPTimeout),
		FTPTLSSkipVerify: c.MapKeyToBool(configMap, SettingFTPTLSSkipVerify),
		FTPDisableEPSV:   c.MapKeyToBool(configMap, SettingFTPDisableEPSV),
		FTPPort:          c.MapKeyToInt(configMap, SettingFTPPort),
		S3Region:         c.MapKeyToString(configMap, SettingS3Region),
		S3Endpoint:       c.MapKeyToString(configMap, SettingS3Endpoint),
		S3AccessKey:      c.MapKeyToString(configMap, SettingS3AccessKey),
		S3SecretKey:      c.MapKeyToString(configMap, SettingS3SecretKey),
		S3SessionToken:   c.MapKeyToString(configMap, SettingS3SessionToken),
		LogLevel:         slog.LevelInfo,
	}

	if level := c.MapKeyToString(configMap, SettingLogLevel); level != "" {
		if err := settings.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("(config) invalid %s: %w", SettingLogLevel, err)
		}
	}

	return settings, nil
}
