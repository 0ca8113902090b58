package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Regions RegionsConfig `yaml:"regions" mapstructure:"regions"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two source tables and names their columns.
type DataConfig struct {
	ParcelsPath   string `yaml:"parcels_path" mapstructure:"parcels_path"`
	AddressesPath string `yaml:"addresses_path" mapstructure:"addresses_path"`

	// Column names in the parcel attribute table.
	ParcelIDColumn      string `yaml:"parcel_id_column" mapstructure:"parcel_id_column"`
	UseCodeColumn       string `yaml:"use_code_column" mapstructure:"use_code_column"`
	AssessedValueColumn string `yaml:"assessed_value_column" mapstructure:"assessed_value_column"`
	PremiseColumn       string `yaml:"premise_column" mapstructure:"premise_column"`

	// Column names in the address point table.
	AddressIDColumn   string `yaml:"address_id_column" mapstructure:"address_id_column"`
	LatitudeColumn    string `yaml:"latitude_column" mapstructure:"latitude_column"`
	LongitudeColumn   string `yaml:"longitude_column" mapstructure:"longitude_column"`
	FullAddressColumn string `yaml:"full_address_column" mapstructure:"full_address_column"`
}

// RegionsConfig selects where fixed regions come from. When both paths are
// empty the built-in DC region set is used.
type RegionsConfig struct {
	YAMLPath      string `yaml:"yaml_path" mapstructure:"yaml_path"`
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
}

// ExportConfig configures batch output locations.
type ExportConfig struct {
	OutDir        string `yaml:"out_dir" mapstructure:"out_dir"`
	UnmatchedFile string `yaml:"unmatched_file" mapstructure:"unmatched_file"`
	DetailsFile   string `yaml:"details_file" mapstructure:"details_file"`
	MapFile       string `yaml:"map_file" mapstructure:"map_file"`
}

// StoreConfig configures the boundary-query history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DCPARCEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.parcels_path", "data/ITSPE_View.csv")
	v.SetDefault("data.addresses_path", "data/Address_Points.csv")
	v.SetDefault("data.parcel_id_column", "SSL")
	v.SetDefault("data.use_code_column", "USECODE")
	v.SetDefault("data.assessed_value_column", "NEWTOTAL")
	v.SetDefault("data.premise_column", "PREMISEADD")
	v.SetDefault("data.address_id_column", "SSL")
	v.SetDefault("data.latitude_column", "LATITUDE")
	v.SetDefault("data.longitude_column", "LONGITUDE")
	v.SetDefault("data.full_address_column", "FULLADDRESS")
	v.SetDefault("export.out_dir", ".")
	v.SetDefault("export.unmatched_file", "unmatched_parcels.csv")
	v.SetDefault("export.details_file", "parcels_in_each_area_details.csv")
	v.SetDefault("export.map_file", "all_locations_map.html")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "dcparcel.db")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
