package config

import (
	"fmt"
	"os"

	"github.com/go-ini/ini"
	"github.com/mattn/go-isatty"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/xdg"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
)

type GeneralConfig struct {
	LogFile  string       `ini:"log-file"`
	LogLevel log.LogLevel `ini:"-"`
	PageSize int          `ini:"page-size"`
}

func defaultGeneralConfig() GeneralConfig {
	return GeneralConfig{
		LogLevel: log.INFO,
		PageSize: lib.DefaultPageSize,
	}
}

func (config *Config) parseGeneral(file *ini.File) error {
	gen, err := file.GetSection("general")
	if err != nil {
		return nil
	}
	if err := gen.MapTo(&config.General); err != nil {
		return err
	}
	if key, err := gen.GetKey("log-level"); err == nil {
		l, err := log.ParseLevel(key.String())
		if err != nil {
			return fmt.Errorf("[general].log-level: %w", err)
		}
		config.General.LogLevel = l
	}
	if config.General.PageSize <= 0 {
		return fmt.Errorf("[general].page-size: must be positive, got %d",
			config.General.PageSize)
	}
	return nil
}

// InitLogging directs the log to log-file. When stdout is not a terminal,
// the log goes there at DEBUG level instead. verbose forces DEBUG.
func (gen *GeneralConfig) InitLogging(verbose bool) error {
	var logFile *os.File
	useStdout := false
	level := gen.LogLevel
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		logFile = os.Stdout
		useStdout = true
		// redirected to file, force DEBUG level
		level = log.DEBUG
	} else if gen.LogFile != "" {
		var err error
		logFile, err = os.OpenFile(xdg.ExpandHome(gen.LogFile),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("log-file: %w", err)
		}
	} else if verbose {
		logFile = os.Stderr
		useStdout = true
	}
	if verbose && level > log.DEBUG {
		level = log.DEBUG
	}
	if err := log.Init(logFile, useStdout, level); err != nil {
		return err
	}
	log.Debugf("hrreject.conf: [general] %#v", *gen)
	return nil
}
