package conf

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	tagName   = "default"
	envPrefix = "xyond"

	defaultDataDirName = ".xyond"
)

type Configuration struct {
	DataDir string
	Network string `default:"mainnet"`
	Log     struct {
		Level   string `default:"info"`
		Dir     string
		Console bool `default:"true"`
		Modules []string
	}
	Mining struct {
		Algo    string `default:"neoscrypt"`
		Workers int    `default:"1"`
		// nonce attempts between cancellation checks
		PollInterval uint32 `default:"4096"`
	}
	Validation struct {
		Workers       int `default:"4"`
		HashCacheSize int `default:"1024"`
	}
}

// setDefaults registers every `default` tag with viper under its dotted key,
// so AutomaticEnv can also override nested fields (XYOND_MINING_WORKERS).
func setDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := strings.ToLower(field.Name)
		if prefix != "" {
			key = prefix + "." + key
		}
		if field.Type.Kind() == reflect.Struct {
			setDefaults(v, field.Type, key)
			continue
		}
		if value, ok := field.Tag.Lookup(tagName); ok {
			v.SetDefault(key, value)
		} else {
			v.SetDefault(key, reflect.Zero(field.Type).Interface())
		}
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	setDefaults(v, reflect.TypeOf(Configuration{}), "")
	return v
}

// InitConfig loads the YAML file at path on top of the tag defaults. An
// empty path uses defaults and environment only.
func InitConfig(path string) (*Configuration, error) {
	v := newViper()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open config file")
		}
		defer file.Close()
		if err := v.ReadConfig(file); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	config := &Configuration{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if config.DataDir == "" {
		config.DataDir = GetDataPath()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Configuration) Validate() error {
	switch c.Network {
	case "mainnet", "testnet", "regtest":
	default:
		return fmt.Errorf("unknown network %q", c.Network)
	}
	if c.Mining.Workers < 1 {
		return fmt.Errorf("mining workers must be positive, got %d", c.Mining.Workers)
	}
	if c.Mining.PollInterval == 0 {
		return errors.New("mining poll interval must be positive")
	}
	if c.Validation.Workers < 1 {
		return fmt.Errorf("validation workers must be positive, got %d", c.Validation.Workers)
	}
	if c.Validation.HashCacheSize < 0 {
		return fmt.Errorf("hash cache size must not be negative, got %d", c.Validation.HashCacheSize)
	}
	return nil
}

// WriteDefault writes the tag defaults as YAML, for bootstrapping a data
// directory.
func WriteDefault(path string) error {
	config, err := InitConfig("")
	if err != nil {
		return err
	}
	config.DataDir = ""
	out, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, out, 0644)
}

func GetDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}
