// Package config contains utilities for loading configs
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const (
	configFilePath = "/data/doggiechef.yaml"
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

const (
	defaultListenAddr     = ":8080"
	defaultUploadDir      = "/data/uploads/recipes"
	defaultMaxUploadBytes = 16 << 20 // 16 MiB
)

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

// ImageHost holds the credentials for the remote hosted-image service.
// Either every field is set or none are; a partially configured host is a
// startup error, not a runtime surprise.
type ImageHost struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,hostname_port|hostname_rfc1123"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint Bucket AccessKey SecretKey"`
}

type Photos struct {
	Backend        string    `yaml:"backend" validate:"omitempty,oneof=local remote"`
	UploadDir      string    `yaml:"upload_dir"`
	URLPrefix      string    `yaml:"url_prefix"`
	MaxUploadBytes int64     `yaml:"max_upload_bytes" validate:"omitempty,min=1"`
	ImageHost      ImageHost `yaml:"image_host"`
}

type Config struct {
	Database   Database `yaml:"database"`
	Photos     Photos   `yaml:"photos"`
	ListenAddr string   `yaml:"listen_addr"`
	Env        string   `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing implements a cross-field validator: the fields listed in
// the tag parameter must either all be zero values or all be non-zero.
// The validator is attached to a placeholder field and inspects the
// parent struct.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			// Extract the struct name from the namespace
			// e.g., "Config.Database.Validate" -> "Database"
			namespace := e.Namespace()
			parts := strings.Split(namespace, ".")
			var structName string
			//nolint:mnd
			if len(parts) >= 2 {
				structName = parts[len(parts)-2]
			}

			var fields string
			switch structName {
			case "Database":
				fields = "Port, Host, Database, User, and Password"
			case "ImageHost":
				fields = "Endpoint, Bucket, AccessKey, and SecretKey"
			default:
				fields = "all related fields"
			}

			return fmt.Errorf(
				"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
				structName, fields)
		}
	}

	return err
}

// applyDatabaseDefaults fills in the host and port when the rest of the
// database section is configured. A fully empty section stays empty so the
// all-or-nothing check can tell "no database" apart from "half a database".
func applyDatabaseDefaults(db *Database) {
	if db.Database == "" && db.User == "" && db.Password == "" {
		return
	}
	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port == 0 {
		db.Port = 5432
	}
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		ListenAddr: loadWithDefault("LISTEN_ADDR", defaultListenAddr),
		Env:        loadWithDefault("ENV", EnvDev),
	}

	// Database
	conf.Database = Database{
		Host:     os.Getenv("DATABASE_HOST"),
		Database: os.Getenv("DATABASE"),
		User:     os.Getenv("DATABASE_USER"),
		Password: os.Getenv("DATABASE_PASSWORD"),
	}
	if databasePort := os.Getenv("DATABASE_PORT"); databasePort != "" {
		port, err := strconv.ParseUint(databasePort, 10, 16)
		if err != nil {
			return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
		}
		conf.Database.Port = uint16(port)
	}
	applyDatabaseDefaults(&conf.Database)

	// Photos
	conf.Photos = Photos{
		Backend:   loadWithDefault("PHOTO_BACKEND", BackendLocal),
		UploadDir: loadWithDefault("UPLOAD_DIR", defaultUploadDir),
		URLPrefix: loadWithDefault("PHOTO_URL_PREFIX", "/photos"),
	}
	maxUpload := loadWithDefault("MAX_UPLOAD_BYTES", strconv.Itoa(defaultMaxUploadBytes))
	if size, err := strconv.ParseInt(maxUpload, 10, 64); err != nil {
		return conf, fmt.Errorf("invalid MAX_UPLOAD_BYTES (%q): %w", maxUpload, err)
	} else {
		conf.Photos.MaxUploadBytes = size
	}

	// Image host
	conf.Photos.ImageHost = ImageHost{
		Endpoint:  loadWithDefault("IMAGE_HOST_ENDPOINT", ""),
		Bucket:    loadWithDefault("IMAGE_HOST_BUCKET", ""),
		AccessKey: loadWithDefault("IMAGE_HOST_ACCESS_KEY", ""),
		SecretKey: loadWithDefault("IMAGE_HOST_SECRET_KEY", ""),
	}
	imageHostSecure := loadWithDefault("IMAGE_HOST_SECURE", "false")
	if b, err := strconv.ParseBool(imageHostSecure); err != nil {
		return conf, fmt.Errorf("invalid IMAGE_HOST_SECURE (%q): %w", imageHostSecure, err)
	} else {
		conf.Photos.ImageHost.Secure = b
	}

	return conf, validateConfig(conf)
}

func loadConfigFromFile(path string) (Config, error) {
	// Read file
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal into config
	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.ListenAddr == "" {
		config.ListenAddr = defaultListenAddr
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	applyDatabaseDefaults(&config.Database)
	if config.Photos.Backend == "" {
		config.Photos.Backend = BackendLocal
	}
	if config.Photos.UploadDir == "" {
		config.Photos.UploadDir = defaultUploadDir
	}
	if config.Photos.URLPrefix == "" {
		config.Photos.URLPrefix = "/photos"
	}
	if config.Photos.MaxUploadBytes == 0 {
		config.Photos.MaxUploadBytes = defaultMaxUploadBytes
	}

	return config, validateConfig(config)
}

func validateConfig(config Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	if err := validate.Struct(config); err != nil {
		return formatValidationError(err)
	}

	// The remote backend cannot run without a configured image host. The
	// local backend ignores the image host section entirely.
	if config.Photos.Backend == BackendRemote && config.Photos.ImageHost.Endpoint == "" {
		return fmt.Errorf("photo backend %q requires the image host to be configured", BackendRemote)
	}

	return nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
