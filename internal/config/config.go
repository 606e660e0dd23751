package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	RPCList          []string `mapstructure:"rpc_list"`
	BondingProgramID string   `mapstructure:"bonding_program_id"`
	WalletsFile      string   `mapstructure:"wallets_file"`
	WalletName       string   `mapstructure:"wallet_name"`
	RefreshDelay     int      `mapstructure:"refresh_delay"`
	RPCDelay         int      `mapstructure:"rpc_delay"`
	Retries          int      `mapstructure:"retries"`
	DebugLogging     bool     `mapstructure:"debug_logging"`
	LogSpillFile     string   `mapstructure:"log_spill_file"`
}

const (
	DefaultRefreshDelay = 2000
	DefaultRPCDelay     = 100
	DefaultRetries      = 3
	DefaultWalletName   = "main"
	DefaultWalletsFile  = "configs/wallets.csv"
	DefaultLogSpillFile = "logs/solbounty.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"refresh_delay":  DefaultRefreshDelay,
		"rpc_delay":      DefaultRPCDelay,
		"retries":        DefaultRetries,
		"wallet_name":    DefaultWalletName,
		"wallets_file":   DefaultWalletsFile,
		"log_spill_file": DefaultLogSpillFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if cfg.BondingProgramID == "" {
		return errors.New("missing bonding_program_id in configuration")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RefreshDelay <= 0 {
		return errors.New("invalid refresh_delay")
	}
	if cfg.RPCDelay <= 0 {
		return errors.New("invalid rpc_delay")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLBOUNTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envProgram := v.GetString("BONDING_PROGRAM_ID")
	if envProgram != "" {
		cfg.BondingProgramID = envProgram
	}

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
	return nil
}
